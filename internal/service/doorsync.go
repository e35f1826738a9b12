package service

import (
	"fmt"
	"time"

	"github.com/adventio/giveaway-api/internal/models"
)

// DoorDefaults are the calendar-level quiz settings copied onto doors created
// during a resync. They are passed explicitly so the planner stays pure.
type DoorDefaults struct {
	QuizEnabled        bool
	QuizPassingScore   int
	ShowCorrectAnswers bool
	AllowRetry         bool
}

// PlanDoorSync computes the minimal changeset that brings the current door
// set to the target shape: `count` doors numbered 1..count, each opening on
// start + (number-1) days. Surviving doors are re-dated unconditionally from
// the new start date, so date drift cannot occur; doors above the target
// count are slated for deletion (the participation guard runs at apply time,
// inside the transaction).
func PlanDoorSync(current []models.Door, start time.Time, count int, defaults DoorDefaults) models.DoorChangeset {
	cs := models.DoorChangeset{Redate: make(map[string]time.Time)}

	existing := make(map[int]models.Door, len(current))
	for _, door := range current {
		if door.DoorNumber > count {
			cs.DeleteIDs = append(cs.DeleteIDs, door.ID)
			continue
		}
		existing[door.DoorNumber] = door
	}

	for number := 1; number <= count; number++ {
		openDate := start.AddDate(0, 0, number-1)
		door, ok := existing[number]
		if !ok {
			cs.Create = append(cs.Create, models.Door{
				DoorNumber:         number,
				Title:              fmt.Sprintf("Door %d", number),
				OpenDate:           openDate,
				EnableQuiz:         defaults.QuizEnabled,
				QuizPassingScore:   defaults.QuizPassingScore,
				ShowCorrectAnswers: defaults.ShowCorrectAnswers,
				AllowRetry:         defaults.AllowRetry,
			})
			continue
		}
		if !door.OpenDate.Equal(openDate) {
			cs.Redate[door.ID] = openDate
		}
	}

	return cs
}
