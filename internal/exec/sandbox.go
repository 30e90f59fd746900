package exec

import (
	"archive/tar"
	"bytes"
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// sandbox runs one submission in a locked-down container: no network, a
// read-only rootfs, tmpfs workspace, and memory/CPU/wall-time limits.
type sandbox struct {
	cli    *client.Client
	image  string
	limits Limits
}

func newSandbox(cli *client.Client, image string, limits Limits) *sandbox {
	return &sandbox{cli: cli, image: image, limits: limits}
}

func (s *sandbox) run(ctx context.Context, fileName string, code []byte, cmd []string,
	onStdout func([]byte), onStderr func([]byte)) (exit int, timedOut bool, err error) {

	ctx, cancel := context.WithTimeout(ctx, s.limits.WallTime)
	defer cancel()

	hostCfg := &container.HostConfig{
		NetworkMode:    "none",
		ReadonlyRootfs: true,
		Mounts: []mount.Mount{
			{Type: mount.TypeTmpfs, Target: "/tmp"},
			{Type: mount.TypeTmpfs, Target: "/workspace"},
		},
		Resources: container.Resources{
			Memory:   s.limits.MemoryB,
			NanoCPUs: s.limits.NanoCPUs,
		},
		SecurityOpt: []string{"no-new-privileges"},
	}

	conf := &container.Config{
		Image:      s.image,
		Cmd:        []string{"sh", "-c", "sleep infinity"},
		Tty:        false,
		WorkingDir: "/workspace",
	}

	create, err := s.cli.ContainerCreate(ctx, conf, hostCfg, nil, nil, "")
	if err != nil {
		return 0, false, err
	}
	cid := create.ID
	defer func() {
		_ = s.cli.ContainerRemove(context.Background(), cid, types.ContainerRemoveOptions{Force: true})
	}()

	if err := s.cli.ContainerStart(ctx, cid, types.ContainerStartOptions{}); err != nil {
		return 0, false, err
	}

	if err := s.copyFile(ctx, cid, "/workspace/"+fileName, code, 0600); err != nil {
		return 0, false, err
	}

	execID, attach, err := s.execStart(ctx, cid, cmd)
	if err != nil {
		return 0, false, err
	}

	// Demux the multiplexed docker stream
	_, copyErr := stdcopy.StdCopy(writerFunc(onStdout), writerFunc(onStderr), attach.Reader)
	attach.Close()

	if ctx.Err() == context.DeadlineExceeded {
		return 0, true, nil
	}
	if copyErr != nil {
		return 0, false, copyErr
	}

	ir, err := s.cli.ContainerExecInspect(ctx, execID)
	if err != nil {
		return 0, false, err
	}
	return ir.ExitCode, false, nil
}

func (s *sandbox) execStart(ctx context.Context, cid string, cmd []string) (string, types.HijackedResponse, error) {
	execResp, err := s.cli.ContainerExecCreate(ctx, cid, types.ExecConfig{
		Cmd:          cmd,
		WorkingDir:   "/workspace",
		AttachStdout: true,
		AttachStderr: true,
		Tty:          false,
	})
	if err != nil {
		return "", types.HijackedResponse{}, err
	}
	attach, err := s.cli.ContainerExecAttach(ctx, execResp.ID, types.ExecStartCheck{Tty: false})
	if err != nil {
		return "", types.HijackedResponse{}, err
	}
	if err := s.cli.ContainerExecStart(ctx, execResp.ID, types.ExecStartCheck{Tty: false}); err != nil {
		attach.Close()
		return "", types.HijackedResponse{}, err
	}
	return execResp.ID, attach, nil
}

func (s *sandbox) copyFile(ctx context.Context, cid, absPath string, content []byte, mode int64) error {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name: absPath[1:],
		Mode: mode,
		Size: int64(len(content)),
	}); err != nil {
		return err
	}
	if _, err := tw.Write(content); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return s.cli.CopyToContainer(ctx, cid, "/", &buf, types.CopyToContainerOptions{})
}

type writerFunc func([]byte)

func (f writerFunc) Write(p []byte) (int, error) {
	f(p)
	return len(p), nil
}
