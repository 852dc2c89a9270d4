package models

// All lists every persisted model in migration order (parents first).
func All() []interface{} {
	return []interface{}{
		&Discussion{},
		&Answer{},
		&Comment{},
		&VoteAnswer{},
		&VoteComment{},
		&Report{},
		&ReportAnswer{},
		&ReportComment{},
	}
}
