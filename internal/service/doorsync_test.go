package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventio/giveaway-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanDoorSyncFromScratch(t *testing.T) {
	start := day(2026, 12, 1)
	cs := PlanDoorSync(nil, start, 3, DoorDefaults{QuizEnabled: true, QuizPassingScore: 80})

	require.Len(t, cs.Create, 3)
	assert.Empty(t, cs.DeleteIDs)
	assert.Empty(t, cs.Redate)

	assert.Equal(t, 1, cs.Create[0].DoorNumber)
	assert.Equal(t, "Door 1", cs.Create[0].Title)
	assert.Equal(t, start, cs.Create[0].OpenDate)
	assert.Equal(t, day(2026, 12, 3), cs.Create[2].OpenDate)
	assert.True(t, cs.Create[0].EnableQuiz)
	assert.Equal(t, 80, cs.Create[0].QuizPassingScore)
}

func TestPlanDoorSyncGrow(t *testing.T) {
	start := day(2026, 12, 1)
	current := []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
	}

	cs := PlanDoorSync(current, start, 4, DoorDefaults{})
	require.Len(t, cs.Create, 2)
	assert.Equal(t, 3, cs.Create[0].DoorNumber)
	assert.Equal(t, 4, cs.Create[1].DoorNumber)
	assert.Empty(t, cs.DeleteIDs)
	assert.Empty(t, cs.Redate)
}

func TestPlanDoorSyncShrink(t *testing.T) {
	start := day(2026, 12, 1)
	current := []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
		{ID: "d3", DoorNumber: 3, OpenDate: day(2026, 12, 3)},
	}

	cs := PlanDoorSync(current, start, 2, DoorDefaults{})
	assert.Empty(t, cs.Create)
	assert.Equal(t, []string{"d3"}, cs.DeleteIDs)
	assert.Empty(t, cs.Redate)
}

func TestPlanDoorSyncMovedStartRedatesSurvivors(t *testing.T) {
	current := []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
	}

	cs := PlanDoorSync(current, day(2026, 12, 5), 2, DoorDefaults{})
	assert.Empty(t, cs.Create)
	assert.Empty(t, cs.DeleteIDs)
	require.Len(t, cs.Redate, 2)
	assert.Equal(t, day(2026, 12, 5), cs.Redate["d1"])
	assert.Equal(t, day(2026, 12, 6), cs.Redate["d2"])
}

func TestPlanDoorSyncNoChanges(t *testing.T) {
	current := []models.Door{
		{ID: "d1", DoorNumber: 1, OpenDate: day(2026, 12, 1)},
		{ID: "d2", DoorNumber: 2, OpenDate: day(2026, 12, 2)},
	}

	cs := PlanDoorSync(current, day(2026, 12, 1), 2, DoorDefaults{})
	assert.True(t, cs.Empty())
}
