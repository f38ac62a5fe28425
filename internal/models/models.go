package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Course{},
		&Chapter{},
		&Attachment{},
		&Purchase{},
		&UserProgress{},
		&SystemSettings{},
		&Upload{},
	}
}
