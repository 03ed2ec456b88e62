package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mountviz/pkg/errors"
	"github.com/matzehuels/mountviz/pkg/graph"
	graphio "github.com/matzehuels/mountviz/pkg/io"
)

type memFiles map[string]string

func (m memFiles) Open(name string) (io.ReadCloser, error) {
	content, ok := m[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "open %s", name)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// fakeCommander answers commands by prefix.
type fakeCommander struct {
	outputs map[string]string
	ran     []string
}

func (f *fakeCommander) Run(_ context.Context, command string) ([]byte, error) {
	f.ran = append(f.ran, command)
	for prefix, out := range f.outputs {
		if strings.HasPrefix(command, prefix) {
			return []byte(out), nil
		}
	}
	return nil, errors.New(errors.ErrCodeCommandFailed, "%s: command not found", command)
}

const (
	sinfoOutput = `PARTITION AVAIL TIMELIMIT NODES STATE NODELIST
batch*    up    infinite  2     idle  node[1-2]
`
	dfOutput = `Filesystem 1024-blocks Used Available Capacity Mounted on
nfs01:/export/home 1048576 524288 524288 50% /home
nfs02:/export/scratch 2097152 209715 1887437 10% /scratch
node1:/apps 1024 1024 0 100% /apps
`
)

func testFiles() memFiles {
	return memFiles{
		"/etc/auto.master": "/home /etc/auto.home\n/- /etc/auto.direct\n",
		"/etc/auto.home":   "alice nfs01:/export/home/alice\nbob nfs01:/export/home/bob\n",
		"/etc/auto.direct": "/scratch nfs02:/export/scratch\n/apps node1:/apps\n",
	}
}

func testRunner(outputs map[string]string) (*Runner, *fakeCommander) {
	cmds := &fakeCommander{outputs: outputs}
	return NewRunner(testFiles(), cmds, log.New(io.Discard)), cmds
}

func TestExecute(t *testing.T) {
	r, _ := testRunner(map[string]string{"sinfo": sinfoOutput})

	result, err := r.Execute(context.Background(), Options{Output: "out.dot"})
	require.NoError(t, err)

	assert.Equal(t, "dot", result.Format)
	assert.Len(t, result.Entries, 4)
	assert.Len(t, result.Nodes, 2)
	assert.Equal(t, Stats{MountCount: 4, ComputeCount: 2, NodeCount: 7, EdgeCount: 3},
		Stats{
			MountCount:   result.Stats.MountCount,
			ComputeCount: result.Stats.ComputeCount,
			NodeCount:    result.Stats.NodeCount,
			EdgeCount:    result.Stats.EdgeCount,
		})

	assert.Equal(t, graph.CategoryFileServer, result.Graph.Category("node1"))
	assert.Equal(t, graph.CategoryComputeNode, result.Graph.Category("node2"))

	dot := string(result.Artifact)
	assert.Contains(t, dot, `"nfs01" -- "/home"`)
	assert.Contains(t, dot, `"node1" -- "/apps"`)
	assert.Contains(t, dot, "cluster_legend")
}

func TestExecute_NoCluster(t *testing.T) {
	r, cmds := testRunner(nil)

	result, err := r.Execute(context.Background(), Options{Format: "dot", NoCluster: true, NoLegend: true})
	require.NoError(t, err)

	assert.Empty(t, cmds.ran, "no command should run")
	assert.Nil(t, result.Nodes)
	assert.Equal(t, 6, result.Stats.NodeCount)
	assert.NotContains(t, string(result.Artifact), "cluster_legend")
}

func TestExecute_ClusterFailure(t *testing.T) {
	r, _ := testRunner(nil)

	_, err := r.Execute(context.Background(), Options{Format: "dot"})
	if !errors.Is(err, errors.ErrCodeCommandFailed) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeCommandFailed)
	}
}

func TestExecute_Exclude(t *testing.T) {
	r, _ := testRunner(nil)

	result, err := r.Execute(context.Background(), Options{
		Format:    "dot",
		NoCluster: true,
		Exclude:   []string{"/etc/auto.direct"},
	})
	require.NoError(t, err)

	for _, e := range result.Entries {
		assert.NotEqual(t, "/etc/auto.direct", e.Source)
	}
	_, ok := result.Graph.Node("/scratch")
	assert.False(t, ok)
}

func TestExecute_DiskUsage(t *testing.T) {
	r, cmds := testRunner(map[string]string{"df ": dfOutput})

	result, err := r.Execute(context.Background(), Options{Format: "dot", NoCluster: true, DiskUsage: true})
	require.NoError(t, err)

	require.Len(t, cmds.ran, 1)
	assert.Equal(t, "df -P -k -- '/home' '/scratch' '/apps'", cmds.ran[0])

	home, ok := result.Graph.Node("/home")
	require.True(t, ok)
	require.NotNil(t, home.Usage)
	assert.Equal(t, 50, home.Usage.Capacity)
	assert.Contains(t, string(result.Artifact), "50% of 1.0 GiB")
}

func TestExecute_DiskUsagePartial(t *testing.T) {
	cmds := &partialCommander{out: "Filesystem 1024-blocks Used Available Capacity Mounted on\nnfs01:/export/home 1024 512 512 50% /home\n"}
	r := NewRunner(testFiles(), cmds, log.New(io.Discard))

	result, err := r.Execute(context.Background(), Options{Format: "dot", NoCluster: true, DiskUsage: true})
	require.NoError(t, err)

	home, _ := result.Graph.Node("/home")
	scratch, _ := result.Graph.Node("/scratch")
	assert.NotNil(t, home.Usage)
	assert.Nil(t, scratch.Usage)
}

// partialCommander mimics df exiting non-zero after printing some rows.
type partialCommander struct{ out string }

func (p *partialCommander) Run(context.Context, string) ([]byte, error) {
	return []byte(p.out), errors.New(errors.ErrCodeCommandFailed, "df: /scratch: No such file or directory")
}

func TestExecute_SeparateHosts(t *testing.T) {
	local := &fakeCommander{outputs: map[string]string{"sinfo": sinfoOutput}}
	remote := &fakeCommander{outputs: map[string]string{"df ": dfOutput}}
	r := NewRunner(testFiles(), local, log.New(io.Discard))
	r.UsageCommands = remote

	result, err := r.Execute(context.Background(), Options{Format: "dot", DiskUsage: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"sinfo"}, local.ran)
	require.Len(t, remote.ran, 1)
	assert.True(t, strings.HasPrefix(remote.ran[0], "df -P -k -- "), remote.ran[0])
	assert.Equal(t, 2, result.Stats.ComputeCount)

	home, _ := result.Graph.Node("/home")
	require.NotNil(t, home.Usage)
}

func TestExecute_JSON(t *testing.T) {
	r, _ := testRunner(map[string]string{"sinfo": sinfoOutput})

	result, err := r.Execute(context.Background(), Options{Output: "graph.json"})
	require.NoError(t, err)

	g, err := graphio.ReadJSON(strings.NewReader(string(result.Artifact)))
	require.NoError(t, err)
	assert.Equal(t, result.Graph.NodeCount(), g.NodeCount())
	assert.Equal(t, result.Graph.EdgeCount(), g.EdgeCount())
}

func TestExecute_MissingMaster(t *testing.T) {
	r, _ := testRunner(nil)

	_, err := r.Execute(context.Background(), Options{Master: "/etc/auto.nope", Format: "dot"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, DefaultMaster, opts.Master)
	assert.Equal(t, "sinfo", opts.ClusterCommand)
	assert.Equal(t, DefaultOutput, opts.Output)
	assert.Equal(t, "svg", opts.Format)
	assert.Equal(t, "fdp", opts.Layout)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.NotNil(t, opts.Logger)
}

func TestValidateAndSetDefaults_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown extension", Options{Output: "graph.bmp"}, errors.ErrCodeInvalidFormat},
		{"bad format", Options{Format: "gif"}, errors.ErrCodeInvalidFormat},
		{"bad layout", Options{Layout: "dot"}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	r, _ := testRunner(map[string]string{"sinfo": sinfoOutput})

	// Build never renders, so an unrenderable output name is fine.
	result, err := r.Build(context.Background(), Options{Output: "graph.bmp"})
	require.NoError(t, err)

	assert.Nil(t, result.Artifact)
	assert.Equal(t, 7, result.Graph.NodeCount())
	assert.ElementsMatch(t, []string{"/home", "/scratch", "/apps"}, result.Graph.MountDirs())
}
