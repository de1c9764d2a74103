package ingest

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usage.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func drain(t *testing.T, src *CSVSource) []Record {
	t.Helper()
	var all []Record
	for {
		chunk, err := src.Next()
		if err == io.EOF {
			return all
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		all = append(all, chunk...)
	}
}

func TestCSVSource_ExpandedSchema(t *testing.T) {
	path := writeCSV(t, "date,username,model,quantity,total_monthly_quota\n"+
		"2025-06-01T10:00:00Z,octocat,gpt-4.1,3,300\n"+
		"2025-06-02T11:00:00Z,hubber,claude-sonnet,5,Unlimited\n")

	src, err := OpenCSV(path, 10)
	if err != nil {
		t.Fatalf("OpenCSV() error: %v", err)
	}

	records := drain(t, src)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0]["username"] != "octocat" || records[1]["total_monthly_quota"] != "Unlimited" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestCSVSource_LegacySchemaRenamed(t *testing.T) {
	path := writeCSV(t, "Timestamp,User,Model,Requests Used,Exceeds Monthly Quota,Total Monthly Quota\n"+
		"2025-06-01T10:00:00Z,octocat,gpt-4.1,3,false,300\n")

	src, err := OpenCSV(path, 10)
	if err != nil {
		t.Fatalf("OpenCSV() error: %v", err)
	}

	records := drain(t, src)
	rec := records[0]
	for _, key := range []string{"date", "username", "model", "quantity", "exceeds_quota", "total_monthly_quota"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("legacy column not renamed to %q: %v", key, rec)
		}
	}
	if rec["quantity"] != "3" {
		t.Errorf("quantity = %q, want 3", rec["quantity"])
	}
}

func TestCSVSource_Chunking(t *testing.T) {
	content := "date,username,model,quantity\n"
	for i := 0; i < 25; i++ {
		content += "2025-06-01T10:00:00Z,u,m,1\n"
	}
	src, err := OpenCSV(writeCSV(t, content), 10)
	if err != nil {
		t.Fatalf("OpenCSV() error: %v", err)
	}

	sizes := []int{}
	for {
		chunk, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		sizes = append(sizes, len(chunk))
	}
	if len(sizes) != 3 || sizes[0] != 10 || sizes[1] != 10 || sizes[2] != 5 {
		t.Errorf("chunk sizes = %v, want [10 10 5]", sizes)
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := OpenCSV(filepath.Join(t.TempDir(), "nope.csv"), 10)
	if !errors.Is(err, ErrSourceRead) {
		t.Errorf("error = %v, want ErrSourceRead", err)
	}
}

func TestCSVSource_EmptyFile(t *testing.T) {
	_, err := OpenCSV(writeCSV(t, ""), 10)
	if !errors.Is(err, ErrSourceParse) {
		t.Errorf("error = %v, want ErrSourceParse", err)
	}
}

func TestCSVSource_MalformedQuoting(t *testing.T) {
	path := writeCSV(t, "date,username,model,quantity\n"+
		"2025-06-01T10:00:00Z,\"unterminated,m,1\n")

	src, err := OpenCSV(path, 10)
	if err != nil {
		t.Fatalf("OpenCSV() error: %v", err)
	}
	_, err = src.Next()
	if !errors.Is(err, ErrSourceParse) {
		t.Errorf("error = %v, want ErrSourceParse", err)
	}
}
