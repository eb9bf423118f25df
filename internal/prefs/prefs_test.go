package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type memLocal struct {
	ids []string
	err error
}

func (m *memLocal) Categories() ([]string, error) { return m.ids, m.err }

func (m *memLocal) SetCategories(ids []string) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append([]string(nil), ids...)
	return nil
}

type fakeRemote struct {
	token     bool
	ids       []string
	getErr    error
	updateErr error
	updated   [][]string
}

func (f *fakeRemote) HasToken() bool { return f.token }

func (f *fakeRemote) Categories(context.Context) ([]string, error) { return f.ids, f.getErr }

func (f *fakeRemote) UpdateCategories(_ context.Context, ids []string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, ids)
	f.ids = ids
	return nil
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		local     []string
		remote    *fakeRemote
		want      []string
		wantLocal []string
	}{
		{
			name:      "signed out uses local",
			local:     []string{"tech"},
			remote:    &fakeRemote{token: false, ids: []string{"finance"}},
			want:      []string{"tech"},
			wantLocal: []string{"tech"},
		},
		{
			name:      "signed in prefers remote and mirrors",
			local:     []string{"tech"},
			remote:    &fakeRemote{token: true, ids: []string{"finance", " ", "finance"}},
			want:      []string{"finance"},
			wantLocal: []string{"finance"},
		},
		{
			name:      "remote failure falls back",
			local:     []string{"tech"},
			remote:    &fakeRemote{token: true, getErr: errors.New("down")},
			want:      []string{"tech"},
			wantLocal: []string{"tech"},
		},
		{
			name:      "no remote",
			local:     []string{"a", "b"},
			want:      []string{"a", "b"},
			wantLocal: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &memLocal{ids: tt.local}
			var s *Service
			if tt.remote != nil {
				s = New(local, tt.remote)
			} else {
				s = New(local, nil)
			}
			got, err := s.Load(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLocal, local.ids); diff != "" {
				t.Errorf("local (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadLocalError(t *testing.T) {
	s := New(&memLocal{err: errors.New("disk")}, nil)
	if _, err := s.Load(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestUpdateWritesRemoteThenLocal(t *testing.T) {
	local := &memLocal{}
	remote := &fakeRemote{token: true}
	s := New(local, remote)

	got, err := s.Update(context.Background(), []string{"tech", "tech", "ai"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"tech", "ai"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Update (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{want}, remote.updated); diff != "" {
		t.Errorf("remote writes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, local.ids); diff != "" {
		t.Errorf("local (-want +got):\n%s", diff)
	}
}

func TestUpdateRemoteFailureLeavesLocal(t *testing.T) {
	local := &memLocal{ids: []string{"old"}}
	s := New(local, &fakeRemote{token: true, updateErr: errors.New("500")})

	if _, err := s.Update(context.Background(), []string{"new"}); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]string{"old"}, local.ids); diff != "" {
		t.Errorf("local changed (-want +got):\n%s", diff)
	}
}

func TestUpdateSignedOutIsLocalOnly(t *testing.T) {
	local := &memLocal{}
	remote := &fakeRemote{token: false}
	s := New(local, remote)

	if _, err := s.Update(context.Background(), []string{"tech"}); err != nil {
		t.Fatal(err)
	}
	if len(remote.updated) != 0 {
		t.Error("remote written while signed out")
	}
}

func TestToggle(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "c"}, Toggle([]string{"a", "b", "c"}, "b")); diff != "" {
		t.Errorf("remove (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, Toggle([]string{"a"}, "b")); diff != "" {
		t.Errorf("add (-want +got):\n%s", diff)
	}
}
