package textutil

import (
	"sort"
	"testing"
)

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("Check out this amazing #food at #restaurant #yummy")
	want := []string{"food", "restaurant", "yummy"}
	if g := sortedCopy(got); len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	} else {
		for i := range want {
			if g[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}
}

func TestExtractHashtagsDedupAndCase(t *testing.T) {
	got := ExtractHashtags("#Food #FOOD #food")
	if len(got) != 1 || got[0] != "food" {
		t.Fatalf("expected deduplicated lowercase [food], got %v", got)
	}
}

func TestExtractHashtagsEmpty(t *testing.T) {
	if got := ExtractHashtags(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := ExtractHashtags("no tags here"); got != nil {
		t.Fatalf("expected nil without hashtags, got %v", got)
	}
}

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("Great time with @friend1 and @friend2")
	g := sortedCopy(got)
	if len(g) != 2 || g[0] != "friend1" || g[1] != "friend2" {
		t.Fatalf("expected [friend1 friend2], got %v", got)
	}
}

func TestCleanUsername(t *testing.T) {
	cases := []struct{ in, want string }{
		{"@SomeUser", "someuser"},
		{"  user.name_1  ", "user.name_1"},
		{"bad!chars#here", "badcharshere"},
	}
	for _, c := range cases {
		if got := CleanUsername(c.in); got != c.want {
			t.Errorf("CleanUsername(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
