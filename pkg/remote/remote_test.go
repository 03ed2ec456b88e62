package remote

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	stderrors "errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/matzehuels/mountviz/pkg/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in       string
		wantUser string
		wantAddr string
	}{
		{"alice@head01", "alice", "head01:22"},
		{"alice@head01:2222", "alice", "head01:2222"},
		{"bob@10.0.0.5", "bob", "10.0.0.5:22"},
		{"bob@[::1]:2200", "bob", "[::1]:2200"},
		{"bob@::1", "bob", "[::1]:22"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, addr, err := parseTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, u)
			assert.Equal(t, tt.wantAddr, addr)
		})
	}
}

func TestParseTarget_DefaultUser(t *testing.T) {
	t.Setenv("USER", "tester")
	u, addr, err := parseTarget("head01")
	require.NoError(t, err)
	assert.Equal(t, "head01:22", addr)
	assert.NotEmpty(t, u)
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, in := range []string{"", "@head01", "alice@"} {
		if _, _, err := parseTarget(in); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseTarget(%q) error = %v, want %s", in, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestLoadKey_Missing(t *testing.T) {
	_, err := loadKey(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadKey() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadKey_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))
	_, err := loadKey(path)
	if !errors.Is(err, errors.ErrCodeRemote) {
		t.Errorf("loadKey() error = %v, want %s", err, errors.ErrCodeRemote)
	}
}

func TestHostKeyCallback_MissingFile(t *testing.T) {
	_, err := hostKeyCallback(filepath.Join(t.TempDir(), "known_hosts"))
	if !errors.Is(err, errors.ErrCodeRemote) {
		t.Errorf("hostKeyCallback() error = %v, want %s", err, errors.ErrCodeRemote)
	}
}

// testServer is an in-process SSH server answering exec requests from a
// fixed table and serving the local filesystem over SFTP.
type testServer struct {
	addr     string
	cfg      Config
	commands map[string]result
}

type result struct {
	stdout string
	stderr string
	status uint32
}

func newTestServer(t *testing.T, commands map[string]result) *testServer {
	t.Helper()
	t.Setenv("SSH_AUTH_SOCK", "")
	dir := t.TempDir()

	_, hostPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	hostSigner, err := ssh.NewSignerFromKey(hostPriv)
	require.NoError(t, err)

	clientPub, clientPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(clientPriv, "")
	require.NoError(t, err)
	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600))
	authorized, err := ssh.NewPublicKey(clientPub)
	require.NoError(t, err)

	srvCfg := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if bytes.Equal(key.Marshal(), authorized.Marshal()) {
				return nil, nil
			}
			return nil, stderrors.New("unauthorized")
		},
	}
	srvCfg.AddHostKey(hostSigner)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &testServer{addr: ln.Addr().String(), commands: commands}

	khPath := filepath.Join(dir, "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize(s.addr)}, hostSigner.PublicKey())
	require.NoError(t, os.WriteFile(khPath, []byte(line+"\n"), 0o600))

	s.cfg = Config{Host: "tester@" + s.addr, Identity: keyPath, KnownHosts: khPath}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn, srvCfg)
		}
	}()
	return s
}

func (s *testServer) serve(conn net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go s.session(ch, chReqs)
	}
}

func (s *testServer) session(ch ssh.Channel, reqs <-chan *ssh.Request) {
	for req := range reqs {
		var payload struct{ Value string }
		switch req.Type {
		case "exec":
			_ = ssh.Unmarshal(req.Payload, &payload)
			_ = req.Reply(true, nil)
			r, ok := s.commands[payload.Value]
			if !ok {
				r = result{stderr: "command not found", status: 127}
			}
			_, _ = io.WriteString(ch, r.stdout)
			_, _ = io.WriteString(ch.Stderr(), r.stderr)
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{r.status}))
			_ = ch.Close()
			return
		case "subsystem":
			_ = ssh.Unmarshal(req.Payload, &payload)
			if payload.Value != "sftp" {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			srv, err := sftp.NewServer(ch)
			if err != nil {
				_ = ch.Close()
				return
			}
			go func() {
				_ = srv.Serve()
				_ = ch.Close()
			}()
		default:
			_ = req.Reply(false, nil)
		}
	}
}

func TestClient_Run(t *testing.T) {
	srv := newTestServer(t, map[string]result{
		"sinfo":    {stdout: "PARTITION NODES NODELIST\nbatch 2 n[1-2]\n"},
		"df -P /x": {stdout: "partial\n", stderr: "df: /x: No such file", status: 1},
	})

	c, err := Dial(context.Background(), srv.cfg)
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Run(context.Background(), "sinfo")
	require.NoError(t, err)
	assert.Equal(t, "PARTITION NODES NODELIST\nbatch 2 n[1-2]\n", string(out))

	out, err = c.Run(context.Background(), "df -P /x")
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed), "error = %v", err)
	assert.Contains(t, err.Error(), "No such file")
	assert.Equal(t, "partial\n", string(out))
}

func TestClient_Open(t *testing.T) {
	srv := newTestServer(t, nil)

	master := filepath.Join(t.TempDir(), "auto.master")
	require.NoError(t, os.WriteFile(master, []byte("/home auto.home\n"), 0o644))

	c, err := Dial(context.Background(), srv.cfg)
	require.NoError(t, err)
	defer c.Close()

	f, err := c.Open(master)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "/home auto.home\n", string(data))

	_, err = c.Open(master + ".missing")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "error = %v", err)
}

func TestDial_UnknownHostKey(t *testing.T) {
	srv := newTestServer(t, nil)

	cfg := srv.cfg
	cfg.KnownHosts = filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(cfg.KnownHosts, nil, 0o600))

	_, err := Dial(context.Background(), cfg)
	assert.True(t, errors.Is(err, errors.ErrCodeRemote), "error = %v", err)
}
