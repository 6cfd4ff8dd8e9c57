package recurrence

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
)

// BuildInitialItems produces the "what I did" list for a newly created card.
//
// The result holds one item per due task, in the order given, followed by
// one item per entry of previous.TasksForTomorrow, in that card's order:
//   - items from due tasks copy Text, TimeEstimate and ClientID, set
//     IsRecurring and reference the task through RecurringTaskID
//   - items rolled over from previous carry no time estimate, take
//     defaultClientID (which may be nil) and are not recurring
//
// Nothing is deduplicated. A nil previous card contributes no items. The
// caller is responsible for ensuring previous is the same user's card for
// the date immediately before the new card's date (see IsPreviousDay).
// The result is never nil and shares no pointers with the inputs.
func BuildInitialItems(
	due []domain.RecurringTask,
	previous *domain.ActivityCard,
	defaultClientID *uuid.UUID,
) []domain.TaskItem {
	size := len(due)
	if previous != nil {
		size += len(previous.TasksForTomorrow)
	}
	items := make([]domain.TaskItem, 0, size)

	for _, task := range due {
		taskID := task.ID
		items = append(items, domain.TaskItem{
			Text:            task.Text,
			TimeEstimate:    copyFloat(task.TimeEstimate),
			ClientID:        copyUUID(task.ClientID),
			IsRecurring:     true,
			RecurringTaskID: &taskID,
		})
	}

	if previous != nil {
		for _, text := range previous.TasksForTomorrow {
			items = append(items, domain.TaskItem{
				Text:     text,
				ClientID: copyUUID(defaultClientID),
			})
		}
	}

	return items
}

// IsPreviousDay reports whether previous belongs on the calendar day
// immediately before target.
func IsPreviousDay(previous *domain.ActivityCard, target time.Time) bool {
	if previous == nil {
		return false
	}
	py, pm, pd := previous.Date.Date()
	ty, tm, td := target.AddDate(0, 0, -1).Date()
	return py == ty && pm == tm && pd == td
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
