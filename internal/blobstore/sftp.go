package blobstore

import (
	apiError "collaborative-annotation-server/internal/errors"
	"context"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPClient implements Client against an SFTP server; buckets map to
// remote directories under the login root.
type SFTPClient struct {
	addr     string
	username string
	password string
	keyFile  string
	timeout  time.Duration
}

type SFTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	KeyFile  string
}

func NewSFTPClient(cfg SFTPConfig) *SFTPClient {
	return &SFTPClient{
		addr:     cfg.Host + ":" + cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		keyFile:  cfg.KeyFile,
		timeout:  30 * time.Second,
	}
}

// connect dials a fresh session per operation; transfers are rare enough
// that pooling isn't worth the reconnect handling.
func (c *SFTPClient) connect() (*ssh.Client, *sftp.Client, error) {
	config := &ssh.ClientConfig{
		User:            c.username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: load known_hosts once the gateway host is pinned
		Timeout:         c.timeout,
	}

	switch {
	case c.keyFile != "":
		key, err := os.ReadFile(c.keyFile)
		if err != nil {
			return nil, nil, err
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, nil, err
		}
		config.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	case c.password != "":
		config.Auth = []ssh.AuthMethod{ssh.Password(c.password)}
	}

	sshClient, err := ssh.Dial("tcp", c.addr, config)
	if err != nil {
		return nil, nil, err
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, err
	}

	return sshClient, sftpClient, nil
}

type remoteFile struct {
	io.ReadCloser
	sftpClient *sftp.Client
	sshClient  *ssh.Client
}

func (f *remoteFile) Close() error {
	err := f.ReadCloser.Close()
	f.sftpClient.Close()
	f.sshClient.Close()
	return err
}

func (c *SFTPClient) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apiError.Transfer("Transfer cancelled", err)
	}

	sshClient, sftpClient, err := c.connect()
	if err != nil {
		return nil, apiError.Transfer("Can't connect to blob store", err)
	}

	file, err := sftpClient.Open(path.Join(bucket, key))
	if err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, apiError.Transfer("Can't open remote object", err)
	}

	return &remoteFile{ReadCloser: file, sftpClient: sftpClient, sshClient: sshClient}, nil
}

func (c *SFTPClient) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return apiError.Transfer("Transfer cancelled", err)
	}

	sshClient, sftpClient, err := c.connect()
	if err != nil {
		return apiError.Transfer("Can't connect to blob store", err)
	}
	defer sshClient.Close()
	defer sftpClient.Close()

	if err := sftpClient.MkdirAll(bucket); err != nil {
		return apiError.Transfer("Can't create remote bucket", err)
	}

	file, err := sftpClient.Create(path.Join(bucket, key))
	if err != nil {
		return apiError.Transfer("Can't create remote object", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return apiError.Transfer("Upload failed", err)
	}
	return nil
}
