package repository

import "time"

// nullTime turns an optional time into a driver argument, storing UTC.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
