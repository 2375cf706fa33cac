package moodle

// CourseInfo is a course discovered on the dashboard, before its page is fetched
type CourseInfo struct {
	Name string
	URL  string // canonical absolute URL, unique per course
}
