package journals

import (
	"context"
	"errors"
	"testing"
)

func registeredProfile(name string) Profile {
	return Profile{
		Name:      name,
		AimsScope: "scope",
		Prompts: map[string]string{
			PromptParaphrase: "p {text}",
			PromptClaimCheck: "c {text}",
			PromptJournalFit: "j {text}",
			PromptExpansion:  "e {text} {claim}",
			PromptReviewer:   "r {text}",
		},
	}
}

func TestRegisterPersistsProfile(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &scriptedClient{result: validGeneration()})

	p, err := svc.Register(context.Background(), "JMEMS", "Journal of MEMS", "MEMS devices", "")
	if err != nil {
		t.Fatal(err)
	}
	if missing := p.MissingPromptTypes(); len(missing) != 0 {
		t.Fatalf("missing prompt types: %v", missing)
	}

	stored, err := svc.Get(context.Background(), "JMEMS")
	if err != nil {
		t.Fatal(err)
	}
	if stored.FullName != "Journal of MEMS" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestRegisterRequiresNameAndScope(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &scriptedClient{result: validGeneration()})
	if _, err := svc.Register(context.Background(), "", "", "scope", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Register(context.Background(), "J", "", "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveUnknownJournal(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &scriptedClient{result: validGeneration()})
	if _, ok := svc.Resolve(context.Background(), "nope"); ok {
		t.Fatal("expected miss")
	}
	if _, ok := svc.Resolve(context.Background(), ""); ok {
		t.Fatal("blank name should miss")
	}
}

func TestImportMergeKeepsExisting(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &scriptedClient{result: validGeneration()})

	existing := registeredProfile("A")
	existing.FullName = "original"
	repo.Save(context.Background(), existing)

	incomingA := registeredProfile("A")
	incomingA.FullName = "imported"
	added, err := svc.Import(context.Background(), []Profile{incomingA, registeredProfile("B")}, true)
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("added = %d", added)
	}
	got, _ := svc.Get(context.Background(), "A")
	if got.FullName != "original" {
		t.Fatalf("merge overwrote existing journal: %+v", got)
	}
}

func TestImportReplaceSwapsCollection(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &scriptedClient{result: validGeneration()})
	repo.Save(context.Background(), registeredProfile("old"))

	if _, err := svc.Import(context.Background(), []Profile{registeredProfile("new")}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("old journal should be gone")
	}
	if _, err := svc.Get(context.Background(), "new"); err != nil {
		t.Fatal("new journal should exist")
	}
}

func TestDeleteUnknownJournal(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &scriptedClient{result: validGeneration()})
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
