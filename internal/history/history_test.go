package history

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMemoryRepoCapsAtMaxEntries(t *testing.T) {
	repo := NewMemoryRepo()
	for i := 0; i < MaxEntries+10; i++ {
		rec := Record{ID: fmt.Sprintf("id-%d", i), Time: time.Now(), Text: fmt.Sprintf("t%d", i)}
		if err := repo.Add(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != MaxEntries {
		t.Fatalf("got %d records, want %d", len(records), MaxEntries)
	}
	if records[0].ID != fmt.Sprintf("id-%d", MaxEntries+9) {
		t.Fatalf("newest first violated: %s", records[0].ID)
	}
}

func TestServiceRecordTruncatesText(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	long := strings.Repeat("a", 250)
	svc.Record(context.Background(), long, map[string]any{"claim": "x"})

	records, _ := repo.List(context.Background())
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if len(records[0].Text) != 100 {
		t.Fatalf("text length = %d", len(records[0].Text))
	}
	if !strings.Contains(string(records[0].Result), `"claim":"x"`) {
		t.Fatalf("result = %s", records[0].Result)
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("한", 250)
	got := TruncateText(long)
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid UTF-8: %q", got)
	}
	if runes := []rune(got); len(runes) != 100 {
		t.Fatalf("rune len = %d, want 100", len(runes))
	}
}

func TestPGRepoAddInsertsAndPrunes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rec := Record{ID: "abc", Time: time.Now(), Text: "hello", Result: []byte(`{}`)}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO history").
		WithArgs(rec.ID, rec.Text, []byte(rec.Result), rec.Time).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM history").
		WithArgs(MaxEntries).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewPGRepo(db)
	if err := repo.Add(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGRepoListNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "text", "result", "created_at"}).
		AddRow("b", "second", []byte(`{}`), now).
		AddRow("a", "first", []byte(`{}`), now.Add(-time.Minute))
	mock.ExpectQuery("SELECT id, text, result, created_at FROM history").
		WithArgs(MaxEntries).
		WillReturnRows(rows)

	repo := NewPGRepo(db)
	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != "b" {
		t.Fatalf("records = %+v", records)
	}
}
