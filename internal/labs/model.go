package labs

import "time"

type PatientRef struct {
	ID   string
	Name string
}

type TestItem struct {
	Test        string
	Event       string
	ResultValue string
	NormalRange string
	UOM         string
	Comment     string
	Flag        string
}

type LabResult struct {
	ID             string
	PatientID      string
	PatientName    string
	PractitionerID string
	Status         string
	ModifiedAt     time.Time
	Items          []TestItem
}
