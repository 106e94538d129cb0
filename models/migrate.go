package models

// WorkflowModels lists the tables owned by the review workflow, in dependency order.
func WorkflowModels() []interface{} {
	return []interface{}{
		&User{},
		&Document{},
		&ReviewRequest{},
		&ReviewResult{},
		&DocumentStatusHistory{},
		&Notification{},
	}
}
