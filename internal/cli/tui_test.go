package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mountviz/pkg/automount"
	"github.com/matzehuels/mountviz/pkg/cluster"
	"github.com/matzehuels/mountviz/pkg/diskusage"
	"github.com/matzehuels/mountviz/pkg/graph"
)

func browseGraph() *graph.Graph {
	g := graph.FromMounts([]automount.MountEntry{
		{MountDir: "/home", Server: "nfs01"},
		{MountDir: "/scratch", Server: "nfs02"},
		{MountDir: "/apps", Server: "nfs02"},
	})
	g.AddComputeNodes([]cluster.Node{{Name: "cn1", Partition: "batch"}})
	g.SetUsage("/scratch", diskusage.Usage{Size: 2 << 30, Capacity: 40})
	return g
}

func press(m BrowseModel, keys ...tea.KeyMsg) BrowseModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(BrowseModel)
	}
	return m
}

var (
	keyDown   = tea.KeyMsg{Type: tea.KeyDown}
	keyUp     = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter  = tea.KeyMsg{Type: tea.KeyEnter}
	keyToggle = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}
)

func TestNewBrowseModel(t *testing.T) {
	m := NewBrowseModel(browseGraph())

	if len(m.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.Rows))
	}
	if m.Rows[0].Name != "nfs01" || m.Rows[1].Name != "nfs02" || m.Rows[2].Name != "cn1" {
		t.Errorf("row order = %s, %s, %s", m.Rows[0].Name, m.Rows[1].Name, m.Rows[2].Name)
	}
	if got := len(m.Rows[1].Mounts); got != 2 {
		t.Errorf("nfs02 mounts = %d, want 2", got)
	}
	if got := m.Rows[1].Mounts[0].Usage; got != "40% of 2.0 GiB" {
		t.Errorf("usage = %q", got)
	}
	if len(m.visible()) != 2 {
		t.Errorf("compute nodes should be hidden by default")
	}
}

func TestBrowseModelNavigation(t *testing.T) {
	m := NewBrowseModel(browseGraph())

	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}

	m = press(m, keyDown, keyDown, keyDown)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 (last visible row)", m.Cursor)
	}

	m = press(m, keyToggle)
	if !m.ShowCompute || m.Cursor != 0 {
		t.Errorf("toggle: ShowCompute = %v, cursor = %d", m.ShowCompute, m.Cursor)
	}

	m = press(m, keyDown, keyDown, keyEnter)
	if m.Selected == nil || m.Selected.Name != "cn1" {
		t.Fatalf("Selected = %+v, want cn1", m.Selected)
	}
}

func TestBrowseModelView(t *testing.T) {
	m := NewBrowseModel(browseGraph())
	m = press(m, keyDown)

	view := m.View()
	for _, want := range []string{"Automount Servers", "nfs01", "nfs02", "/scratch", "40% of 2.0 GiB", "[2/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestBrowseModelEmpty(t *testing.T) {
	m := NewBrowseModel(graph.New())
	m = press(m, keyDown, keyEnter)

	if m.Selected != nil {
		t.Error("empty browser should not select")
	}
	if !strings.Contains(m.View(), "no servers") {
		t.Error("empty browser should say so")
	}
}
