// Package fallback holds the built-in sample records shown when the record
// API cannot be read.
package fallback

import "github.com/noah-isme/sma-portal/internal/models"

type sample struct {
	id     string
	fields models.Fields
}

var samples = map[models.Kind][]sample{
	models.KindGrades: {
		{"1001", models.Fields{"studentname": "John Doe", "studentid": "S001", "subject": "Mathematics", "marks": 85.0, "grade": "9", "semester": "Spring 2024"}},
		{"1002", models.Fields{"studentname": "Jane Smith", "studentid": "S002", "subject": "English", "marks": 92.0, "grade": "9", "semester": "Spring 2024"}},
		{"1003", models.Fields{"studentname": "Alex Johnson", "studentid": "S003", "subject": "Science", "marks": 78.0, "grade": "9", "semester": "Spring 2024"}},
		{"1004", models.Fields{"studentname": "Sarah Williams", "studentid": "S004", "subject": "Social Studies", "marks": 88.0, "grade": "9", "semester": "Spring 2024"}},
	},
	models.KindExams: {
		{"1", models.Fields{"subject": "Mathematics", "date": "2024-03-15", "time": "10:00 AM", "room": "101"}},
		{"2", models.Fields{"subject": "English", "date": "2024-03-16", "time": "02:00 PM", "room": "102"}},
	},
	models.KindFees: {
		{"1", models.Fields{"month": "January", "amount": "5000", "status": "Paid", "duedate": "2024-01-15"}},
		{"2", models.Fields{"month": "February", "amount": "5000", "status": "Pending", "duedate": "2024-02-15"}},
	},
	models.KindMessages: {
		{"1", models.Fields{"sender": "Admin", "subject": "Welcome", "date": "2024-02-10", "read": false}},
		{"2", models.Fields{"sender": "Teacher", "subject": "Assignment", "date": "2024-02-12", "read": true}},
	},
	models.KindTransport: {
		{"1", models.Fields{"route": "Route A", "busno": "BUS001", "pickuptime": "07:30 AM", "status": "Active"}},
		{"2", models.Fields{"route": "Route B", "busno": "BUS002", "pickuptime": "08:00 AM", "status": "Active"}},
	},
	models.KindTimetable: {
		{"1", models.Fields{"day": "Monday", "subject": "Mathematics", "starttime": "09:00 AM", "endtime": "10:00 AM", "room": "101", "teacher": "Mr. John"}},
		{"2", models.Fields{"day": "Monday", "subject": "English", "starttime": "10:15 AM", "endtime": "11:15 AM", "room": "102", "teacher": "Mrs. Jane"}},
		{"3", models.Fields{"day": "Tuesday", "subject": "Science", "starttime": "09:00 AM", "endtime": "10:00 AM", "room": "103", "teacher": "Mr. Smith"}},
	},
	models.KindAssignments: {
		{"1", models.Fields{"subject": "Mathematics", "title": "Chapter 5 Exercises", "duedate": "2024-02-20", "status": "Pending"}},
		{"2", models.Fields{"subject": "English", "title": "Essay Writing", "duedate": "2024-02-25", "status": "Submitted"}},
		{"3", models.Fields{"subject": "Science", "title": "Lab Report", "duedate": "2024-03-01", "status": "Pending"}},
	},
}

// For returns a fresh copy of the sample sequence of kind. Kinds without
// samples yield an empty, non-nil slice.
func For(kind models.Kind) []models.Record {
	src := samples[kind]
	out := make([]models.Record, len(src))
	for i, s := range src {
		out[i] = models.Record{Kind: kind, ID: s.id, Fields: s.fields.Clone()}
	}
	return out
}
