package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/brainstein/loghound/internal/config"
)

var ErrNoCredentials = errors.New("sftp credentials not configured")

// Stats summarizes one refresh run.
type Stats struct {
	Downloaded int
	Considered int
	Deleted    int
}

// Client downloads fresh log files from the transfer server and prunes the
// local corpus by retention age.
type Client struct {
	cfg  config.SFTPConfig
	sftp *sftp.Client
	ssh  *ssh.Client
	log  zerolog.Logger
}

// Dial opens the SFTP session. Password authentication only, matching the
// transfer server's account setup.
func Dial(cfg config.SFTPConfig, log zerolog.Logger) (*Client, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		// TODO: verify against a known_hosts file once the server key is pinned
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	sc, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening sftp session: %w", err)
	}

	return &Client{cfg: cfg, sftp: sc, ssh: conn, log: log}, nil
}

func (c *Client) Close() error {
	if c.sftp != nil {
		c.sftp.Close()
	}
	if c.ssh != nil {
		return c.ssh.Close()
	}
	return nil
}

// Refresh downloads log files modified within the retention window from
// every configured remote folder into localBase, mirroring the folder
// layout. Files newer than the fresh-guard window are skipped: the server
// may still be writing them.
func (c *Client) Refresh(ctx context.Context, localBase string, retentionDays int) (Stats, error) {
	var stats Stats
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	freshGuard := time.Duration(c.cfg.FreshGuardMinutes) * time.Minute

	for _, folder := range c.cfg.Folders {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		remoteDir := path.Join(c.cfg.RemoteBase, folder)
		localDir := filepath.Join(localBase, folder)
		if err := os.MkdirAll(localDir, 0o700); err != nil {
			return stats, err
		}

		entries, err := c.sftp.ReadDir(remoteDir)
		if err != nil {
			c.log.Warn().Str("dir", remoteDir).Err(err).Msg("cannot list remote folder")
			continue
		}

		for _, fi := range entries {
			if fi.IsDir() || !MatchesLogName(fi.Name()) {
				continue
			}
			mtime := fi.ModTime()
			if mtime.Before(cutoff) || time.Since(mtime) < freshGuard {
				continue
			}
			stats.Considered++

			remoteFile := path.Join(remoteDir, fi.Name())
			localFile := filepath.Join(localDir, fi.Name())
			if err := c.download(ctx, remoteFile, localFile); err != nil {
				c.log.Warn().Str("file", remoteFile).Err(err).Msg("download failed")
				continue
			}
			stats.Downloaded++
			c.log.Info().Str("file", fi.Name()).Time("mtime", mtime).Msg("downloaded")
		}
	}
	return stats, nil
}

// download copies one remote file, retrying transient failures. A missing
// remote file is not retried; the server rotates logs underneath us.
func (c *Client) download(ctx context.Context, remote, local string) error {
	var lastErr error
	delay := time.Duration(c.cfg.RetryDelaySeconds) * time.Second

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = c.copyFile(remote, local)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, os.ErrNotExist) {
			return lastErr
		}
		if attempt < c.cfg.MaxRetries {
			time.Sleep(delay)
		}
	}
	return lastErr
}

func (c *Client) copyFile(remote, local string) error {
	src, err := c.sftp.Open(remote)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(local)
	if err != nil {
		return err
	}

	if _, err := src.WriteTo(dst); err != nil {
		dst.Close()
		os.Remove(local)
		return err
	}
	return dst.Close()
}

// MatchesLogName reports whether a filename is one of the transfer
// server's log shapes: c*.log (CL transfer records) or u_ex*.log (EX
// protocol logs).
func MatchesLogName(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".log") {
		return false
	}
	return strings.HasPrefix(lower, "c") || strings.HasPrefix(lower, "u_ex")
}
