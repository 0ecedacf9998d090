package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/internal/errors"
	"cardiodash/internal/session"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	assert.True(t, s.SidebarVisible)
	assert.Equal(t, MenuExploration, s.Menu)
}

func TestToggleSidebarTwiceRestores(t *testing.T) {
	for _, start := range []bool{true, false} {
		s := SessionState{SidebarVisible: start, Menu: MenuPerformance}
		s.ToggleSidebar()
		assert.Equal(t, !start, s.SidebarVisible)
		s.ToggleSidebar()
		assert.Equal(t, start, s.SidebarVisible)
	}
}

func TestToggleNeverChangesMenu(t *testing.T) {
	for _, m := range Menus {
		s := SessionState{SidebarVisible: true, Menu: m}
		for i := 0; i < 7; i++ {
			s.ToggleSidebar()
			assert.Equal(t, m, s.Menu)
		}
	}
}

func TestSelectFromSidebar(t *testing.T) {
	s := DefaultState()
	assert.True(t, s.SelectFromSidebar(MenuVisualisations))
	assert.Equal(t, MenuVisualisations, s.Menu)

	assert.False(t, s.SelectFromSidebar(Menu("Admin")))
	assert.Equal(t, MenuVisualisations, s.Menu)

	s.ToggleSidebar()
	assert.False(t, s.SelectFromSidebar(MenuPerformance))
	assert.Equal(t, MenuVisualisations, s.Menu, "hidden selector keeps the last menu")
}

func TestNavigateIgnoresSidebar(t *testing.T) {
	s := SessionState{SidebarVisible: false, Menu: MenuExploration}
	assert.True(t, s.Navigate(MenuPrediction))
	assert.Equal(t, MenuPrediction, s.Menu)
	assert.False(t, s.SidebarVisible)
}

func TestParseMenu(t *testing.T) {
	for _, m := range Menus {
		got, err := ParseMenu(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMenu("data exploration")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestNormalizeFailsClosed(t *testing.T) {
	s := SessionState{SidebarVisible: false, Menu: Menu("Settings")}
	assert.True(t, s.Normalize())
	assert.Equal(t, MenuExploration, s.Menu)
	assert.False(t, s.SidebarVisible)

	assert.False(t, s.Normalize())
}

func TestDecodeState(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		want  SessionState
		clean bool
	}{
		{"round trip", `{"sidebar_visible":false,"menu":"Model Prediction"}`, SessionState{false, MenuPrediction}, true},
		{"missing sidebar", `{"menu":"Visualisations"}`, SessionState{true, MenuVisualisations}, true},
		{"unknown menu", `{"sidebar_visible":false,"menu":"Nope"}`, SessionState{false, MenuExploration}, false},
		{"garbage", `\x00{{`, DefaultState(), false},
		{"empty", ``, DefaultState(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, clean := DecodeState([]byte(tc.data))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.clean, clean)
		})
	}
}

func TestSessionsPersistState(t *testing.T) {
	store := session.NewStore(1<<20, time.Minute)
	sessions := NewSessions(store)
	id := session.NewID()

	assert.Equal(t, DefaultState(), sessions.Load(id))

	state := SessionState{SidebarVisible: false, Menu: MenuPerformance}
	require.NoError(t, sessions.Save(id, state))
	assert.Equal(t, state, sessions.Load(id))

	require.NoError(t, store.Save(id, []byte("not json")))
	assert.Equal(t, DefaultState(), sessions.Load(id))
}
