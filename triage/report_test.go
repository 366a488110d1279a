package triage

import (
	"bytes"
	"testing"
	"time"
)

func sampleStats() Stats {
	return Stats{
		Total:        3,
		PassivePoles: FrequencyTable{{Value: "INSS", Count: 2}, {Value: "União", Count: 1}},
		Months:       []MonthCount{{Month: time.October, Count: 3}},
		Owners:       FrequencyTable{{Value: "Servidor 01", Count: 2}, {Value: UnassignedBucket, Count: 1}},
		Courts:       FrequencyTable{{Value: "3ª Vara Federal", Count: 3}},
		Subjects:     FrequencyTable{{Value: "Benefício Assistencial", Count: 3}},
	}
}

func TestWriteOverviewPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOverviewPDF(&buf, sampleStats(), time.Date(2025, 10, 10, 14, 0, 0, 0, brazilZone))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestWriteStatisticsPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStatisticsPDF(&buf, sampleStats(), time.Date(2025, 10, 10, 14, 0, 0, 0, brazilZone))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}
