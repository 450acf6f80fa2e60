package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCountSnags(t *testing.T) {
	tests := []struct {
		name  string
		rooms []Room
		want  SnagCounts
	}{
		{
			name:  "no rooms",
			rooms: nil,
			want:  SnagCounts{},
		},
		{
			name: "rooms without snags",
			rooms: []Room{
				{ID: uuid.New(), Name: "Kitchen"},
				{ID: uuid.New(), Name: "Garage"},
			},
			want: SnagCounts{},
		},
		{
			name: "single open critical snag",
			rooms: []Room{
				{ID: uuid.New(), Name: "Kitchen", Snags: []Snag{
					{ID: uuid.New(), Priority: SnagPriorityCritical, Status: SnagStatusOpen},
				}},
			},
			want: SnagCounts{Total: 1, Open: 1, Critical: 1},
		},
		{
			name: "resolved critical still counts as critical",
			rooms: []Room{
				{ID: uuid.New(), Name: "Garage", Snags: []Snag{
					{ID: uuid.New(), Priority: SnagPriorityCritical, Status: SnagStatusResolved},
				}},
			},
			want: SnagCounts{Total: 1, Open: 0, Critical: 1},
		},
		{
			name: "mixed statuses across rooms",
			rooms: []Room{
				{ID: uuid.New(), Name: "Kitchen", Snags: []Snag{
					{ID: uuid.New(), Priority: SnagPriorityMedium, Status: SnagStatusOpen},
					{ID: uuid.New(), Priority: SnagPriorityLow, Status: SnagStatusInProgress},
				}},
				{ID: uuid.New(), Name: "Landing", Snags: []Snag{
					{ID: uuid.New(), Priority: SnagPriorityCritical, Status: SnagStatusOpen},
					{ID: uuid.New(), Priority: SnagPriorityHigh, Status: SnagStatusResolved},
					{ID: uuid.New(), Priority: SnagPriorityCritical, Status: SnagStatusInProgress},
				}},
			},
			want: SnagCounts{Total: 5, Open: 2, Critical: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{ID: uuid.New(), Rooms: tt.rooms}
			got := CountSnags(r)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSavedReport(t *testing.T) {
	r := &Report{
		ID:         uuid.New(),
		Address:    "12 Orchard Way",
		Developer:  "Hillcrest Homes",
		Client:     "J. Carter",
		PlotNumber: "47",
		Status:     ReportStatusWorking,
		Rooms: []Room{
			{ID: uuid.New(), Name: "Kitchen", Snags: []Snag{
				{ID: uuid.New(), Priority: SnagPriorityCritical, Status: SnagStatusOpen},
				{ID: uuid.New(), Priority: SnagPriorityLow, Status: SnagStatusResolved},
			}},
		},
	}

	saved := BuildSavedReport(r)

	assert.Equal(t, r.ID, saved.ID)
	assert.Equal(t, "12 Orchard Way", saved.Address)
	assert.Equal(t, ReportStatusWorking, saved.Status)
	assert.Equal(t, 2, saved.TotalSnags)
	assert.Equal(t, 1, saved.OpenSnags)
}
