package analysis

import "testing"

func TestFindOverstatements(t *testing.T) {
	found := FindOverstatements("This is clearly the best and first approach, Never seen before.")
	want := map[string]bool{"never": true, "clearly": true, "first": true, "best": true}
	if len(found) != len(want) {
		t.Fatalf("found = %v", found)
	}
	for _, w := range found {
		if !want[w] {
			t.Fatalf("unexpected word %q in %v", w, found)
		}
	}
}

func TestFindOverstatementsClean(t *testing.T) {
	if found := FindOverstatements("The measured latency was 12 ms."); len(found) != 0 {
		t.Fatalf("found = %v", found)
	}
}

func TestDetectVague(t *testing.T) {
	hits := DetectVague("We observed a Significant and fast improvement.")
	if len(hits) != 2 {
		t.Fatalf("hits = %v", hits)
	}
	if hits[0].Word != "significant" || hits[0].Fix == "" {
		t.Fatalf("first hit = %+v", hits[0])
	}
	if hits[1].Word != "fast" {
		t.Fatalf("second hit = %+v", hits[1])
	}
}

func TestDetectVagueKorean(t *testing.T) {
	hits := DetectVague("상당한 성능 향상을 보였다.")
	if len(hits) != 1 || hits[0].Word != "상당한" {
		t.Fatalf("hits = %v", hits)
	}
}
