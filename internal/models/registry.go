package models

// All lists every persisted model, in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Due{},
		&Payment{},
		&Expense{},
		&Notification{},
		&VerificationCode{},
		&ScheduledTask{},
		&ScheduledTaskHistory{},
	}
}
