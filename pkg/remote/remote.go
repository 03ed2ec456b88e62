// Package remote reaches a cluster head node over SSH.
//
// A [Client] runs shell commands (satisfying cluster.Runner and
// diskusage.Runner) and opens files over SFTP (satisfying
// automount.Source), so the whole pipeline can inspect a host other than
// the one mountviz runs on.
package remote

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/matzehuels/mountviz/pkg/errors"
)

const (
	defaultPort    = "22"
	defaultTimeout = 10 * time.Second
)

// Config describes how to reach the remote host.
type Config struct {
	// Host is "[user@]host[:port]". The user defaults to the local user.
	Host string
	// Identity is a private key file. Empty tries ssh-agent and then the
	// default keys in ~/.ssh.
	Identity string
	// KnownHosts is the known_hosts file used to verify the host key.
	// Empty uses ~/.ssh/known_hosts.
	KnownHosts string
	// Timeout bounds the TCP connect and SSH handshake.
	Timeout time.Duration
}

// Client is an open SSH connection. The SFTP subsystem is started on
// first use of [Client.Open].
type Client struct {
	addr string
	ssh  *ssh.Client

	mu   sync.Mutex
	sftp *sftp.Client
}

// Dial connects and authenticates to cfg.Host.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	username, addr, err := parseTarget(cfg.Host)
	if err != nil {
		return nil, err
	}

	hostKeys, err := hostKeyCallback(cfg.KnownHosts)
	if err != nil {
		return nil, err
	}

	auth, closeAgent, err := authMethods(cfg.Identity)
	if err != nil {
		return nil, err
	}
	defer closeAgent()

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	sshCfg := &ssh.ClientConfig{
		User:            username,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         timeout,
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "connect %s", addr)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "ssh handshake with %s", addr)
	}

	return &Client{addr: addr, ssh: ssh.NewClient(c, chans, reqs)}, nil
}

// Addr returns the host:port the client is connected to.
func (c *Client) Addr() string { return c.addr }

// Run executes command in a new session and returns its standard output.
// A non-zero exit status returns the output together with an error coded
// [errors.ErrCodeCommandFailed] carrying stderr.
func (c *Client) Run(ctx context.Context, command string) ([]byte, error) {
	sess, err := c.ssh.NewSession()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "%s: new session", c.addr)
	}
	defer func() { _ = sess.Close() }()

	var out, errBuf bytes.Buffer
	sess.Stdout = &out
	sess.Stderr = &errBuf

	done := make(chan error, 1)
	go func() { done <- sess.Run(command) }()

	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case err := <-done:
		if err == nil {
			return out.Bytes(), nil
		}
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return out.Bytes(), errors.Wrap(errors.ErrCodeCommandFailed, err, "%s on %s: %s",
				command, c.addr, strings.TrimSpace(errBuf.String()))
		}
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "%s on %s", command, c.addr)
	}
}

// Open opens a remote file for reading over SFTP.
func (c *Client) Open(name string) (io.ReadCloser, error) {
	sc, err := c.sftpClient()
	if err != nil {
		return nil, err
	}

	f, err := sc.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s:%s", c.addr, name)
		}
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "open %s:%s", c.addr, name)
	}
	return f, nil
}

func (c *Client) sftpClient() (*sftp.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sftp == nil {
		sc, err := sftp.NewClient(c.ssh)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRemote, err, "start sftp on %s", c.addr)
		}
		c.sftp = sc
	}
	return c.sftp, nil
}

// Close closes the SFTP session, if any, and the SSH connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sftp != nil {
		_ = c.sftp.Close()
		c.sftp = nil
	}
	return c.ssh.Close()
}

// parseTarget splits "[user@]host[:port]" into the login name and a dial
// address with the port filled in.
func parseTarget(target string) (username, addr string, err error) {
	if target == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "remote host is empty")
	}

	host := target
	if i := strings.LastIndex(target, "@"); i >= 0 {
		username, host = target[:i], target[i+1:]
		if username == "" {
			return "", "", errors.New(errors.ErrCodeInvalidInput, "empty user in %q", target)
		}
	}
	if username == "" {
		username = localUser()
	}

	h, port, splitErr := net.SplitHostPort(host)
	if splitErr != nil {
		// No port, or a bare IPv6 address.
		h, port = strings.Trim(host, "[]"), defaultPort
	}
	if h == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "empty host in %q", target)
	}
	return username, net.JoinHostPort(h, port), nil
}

func localUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func hostKeyCallback(path string) (ssh.HostKeyCallback, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRemote, err, "locate known_hosts")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "load known hosts %s", path)
	}
	return cb, nil
}

// authMethods collects public-key auth from an explicit identity file or,
// failing that, ssh-agent and the default key files. The returned func
// releases the agent connection once the handshake is done.
func authMethods(identity string) ([]ssh.AuthMethod, func(), error) {
	noop := func() {}

	if identity != "" {
		signer, err := loadKey(identity)
		if err != nil {
			return nil, noop, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, noop, nil
	}

	var methods []ssh.AuthMethod
	closeAgent := noop
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
			closeAgent = func() { _ = conn.Close() }
		}
	}

	var signers []ssh.Signer
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
			if s, err := loadKey(filepath.Join(home, ".ssh", name)); err == nil {
				signers = append(signers, s)
			}
		}
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if len(methods) == 0 {
		closeAgent()
		return nil, noop, errors.New(errors.ErrCodeRemote, "no ssh credentials: set SSH_AUTH_SOCK or pass an identity file")
	}
	return methods, closeAgent, nil
}

func loadKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read identity %s", path)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) {
			return nil, errors.New(errors.ErrCodeRemote, "identity %s is passphrase protected: add it to ssh-agent", path)
		}
		return nil, errors.Wrap(errors.ErrCodeRemote, err, "parse identity %s", path)
	}
	return signer, nil
}

// String implements fmt.Stringer.
func (c *Client) String() string { return fmt.Sprintf("ssh://%s", c.addr) }
