// Package task defines planner tasks and the rules a candidate must pass
// before it can be stored.
//
// A task looks like this on the wire:
//
//	{
//	  "id": "t1",
//	  "title": "Finish App",
//	  "category": "Work",
//	  "dueDate": "2024-07-01",
//	  "isCompleted": false
//	}
//
// # Validation
//
// Every rule is checked independently and all failures are reported together:
//
//   - TITLE_REQUIRED: title is empty after trimming
//   - CATEGORY_REQUIRED: category is missing or not one of Work, Personal, Study
//   - DUE_DATE_REQUIRED: dueDate is missing or not a YYYY-MM-DD calendar date
//   - DUE_DATE_IN_PAST: dueDate is before the current day
//
// The current day comes from a Clock so callers can pin it. The comparison is
// made at day granularity; a due date equal to today is accepted.
//
// A stored task whose due date later falls into the past stays valid. The
// rule only applies when a task is created or edited.
package task
