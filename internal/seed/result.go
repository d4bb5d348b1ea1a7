// Package seed provides demo-data upsert orchestration: reference plants
// with their stage schedules and the users who receive alerts. Used to
// bootstrap a fresh database for development and demos.
package seed

import "fmt"

// Result tracks counts and errors from a seeding operation.
type Result struct {
	PlantsUpserted int
	UsersUpserted  int
	Errors         []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.PlantsUpserted += other.PlantsUpserted
	r.UsersUpserted += other.UsersUpserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf("plants=%d users=%d errors=%d",
		r.PlantsUpserted, r.UsersUpserted, len(r.Errors))
}
