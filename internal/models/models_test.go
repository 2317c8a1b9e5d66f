package models

import (
	"encoding/json"
	"testing"
)

func TestPage(t *testing.T) {
	t.Run("decodes backend shape", func(t *testing.T) {
		body := `{"content":[{"id":7,"title":"Intro","duration":95,"published":true,"isInWatchlist":true}],"number":2,"size":10,"totalPages":3,"totalElements":21}`

		var page Page[Video]
		if err := json.Unmarshal([]byte(body), &page); err != nil {
			t.Fatalf("failed to decode page: %v", err)
		}

		if page.Index != 2 || page.TotalPages != 3 || page.TotalElements != 21 {
			t.Errorf("unexpected metadata: %+v", page)
		}
		if len(page.Items) != 1 || page.Items[0].Key() != "7" || !page.Items[0].InWatchlist {
			t.Errorf("unexpected items: %+v", page.Items)
		}
		if !page.Last() {
			t.Error("page 2 of 3 should be the last")
		}
	})

	t.Run("empty listing is last", func(t *testing.T) {
		if !(Page[User]{}).Last() {
			t.Error("expected empty page to be last")
		}
	})
}

func TestRole(t *testing.T) {
	tc := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "admin", want: RoleAdmin},
		{in: " USER ", want: RoleUser},
		{in: "owner", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if RoleAdmin.Toggle() != RoleUser || RoleUser.Toggle() != RoleAdmin {
		t.Error("Toggle should flip roles")
	}
}

func TestCurrentUser(t *testing.T) {
	cu := NewCurrentUser("sess-1", AuthResponse{Token: "tok", ID: 3, Email: "a@b.c", Role: RoleAdmin})

	if !cu.IsAdmin() {
		t.Error("expected admin")
	}
	if !cu.IsUser(User{ID: 3}) || cu.IsUser(User{ID: 4}) {
		t.Error("IsUser should compare IDs")
	}

	var none *CurrentUser
	if none.IsAdmin() {
		t.Error("nil user is not an admin")
	}
}

func TestVideoStats(t *testing.T) {
	if got := (VideoStats{TotalVideos: 10, PublishedVideos: 7}).Drafts(); got != 3 {
		t.Errorf("Drafts() = %d, want 3", got)
	}
}
