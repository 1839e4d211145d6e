package models

import "time"

// TaskList is a document in the TaskLists collection. UserIDs holds the
// normalized ids of its members, the creator first.
type TaskList struct {
	Ident     `bson:",inline"`
	Title     string    `bson:"title"`
	CreatedAt time.Time `bson:"createdAt"`
	UserIDs   []string  `bson:"userIds"`
}

// HasMember reports whether userID belongs to the list.
func (t *TaskList) HasMember(userID string) bool {
	for _, id := range t.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ToDo is a document in the ToDos collection.
type ToDo struct {
	Ident       `bson:",inline"`
	Content     string `bson:"content"`
	IsCompleted bool   `bson:"isCompleted"`
	TaskListID  string `bson:"taskListId"`
}

// ToDoPatch lists the fields updateToDo may change; nil means unchanged.
type ToDoPatch struct {
	Content     *string
	IsCompleted *bool
}
