package model

import "strconv"

// Go models that match templates/resume.schema.json. Field names follow the
// JSON document stored in resumes.data.

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Experience is one job. EndDate is ignored when CurrentlyWorking is set.
type Experience struct {
	Company          string `json:"company"`
	Position         string `json:"position"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate,omitempty"`
	Description      string `json:"description,omitempty"`
	CurrentlyWorking bool   `json:"currentlyWorking,omitempty"`
}

type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"fieldOfStudy"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	GPA          *float64 `json:"gpa,omitempty"`
}

// HasGPA reports whether the GPA line should be shown. A GPA of 0 counts as
// absent.
func (e Education) HasGPA() bool {
	return e.GPA != nil && *e.GPA != 0
}

// GPAText formats the GPA without trailing zeros (3.5, 4).
func (e Education) GPAText() string {
	if e.GPA == nil {
		return ""
	}
	return strconv.FormatFloat(*e.GPA, 'f', -1, 64)
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Link         string   `json:"link,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Resume is the structured document a user composes. Every list is optional.
type Resume struct {
	Profile     Profile      `json:"profile"`
	Experiences []Experience `json:"experiences,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Skills      []Skill      `json:"skills,omitempty"`
	Projects    []Project    `json:"projects,omitempty"`
	Languages   []Language   `json:"languages,omitempty"`
}
