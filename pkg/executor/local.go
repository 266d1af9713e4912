// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor

import (
	"bufio"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// Time given to the process group to exit after SIGTERM before SIGKILL is sent.
	terminateTimeout = 5 * time.Second
	killTimeout      = 5 * time.Second

	maxLineSize = 1024 * 1024
)

// Local provisioning is responsible for providing the execution environment
// on local machine via exec.Command.
// It runs command as current user.
type Local struct {
	dir string
}

// NewLocal returns a Local instance.
func NewLocal() Local {
	return Local{}
}

// NewLocalIn returns a Local instance which starts processes in given working directory.
func NewLocalIn(dir string) Local {
	return Local{dir: dir}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local"
}

// Execute runs the command given as input.
// Returned Task is able to stop & monitor the provisioned process.
// Stdout and stderr of the process are merged into one stream available through Output().
func (l Local) Execute(command string, args ...string) (TaskHandle, error) {
	commandLine := strings.Join(append([]string{command}, args...), " ")
	log.Debug("Starting ", commandLine)

	cmd := exec.Command(command, args...)
	cmd.Dir = l.dir
	// It is important to set additional Process Group ID for parent process and his children
	// to have ability to kill all the children processes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	output, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create output pipe for %q", commandLine)
	}
	// Both streams share the same pipe so lines keep their original interleaving.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "cannot start %q", commandLine)
	}

	log.Debugf("Started %q with pid %d", commandLine, cmd.Process.Pid)

	task := newLocalTask(cmd, commandLine)
	register(task)
	go task.run(output)

	return task, nil
}

// localTask implements TaskHandle interface.
type localTask struct {
	cmd         *exec.Cmd
	commandLine string
	pid         int

	lines    chan string
	stopped  chan struct{}
	stopOnce sync.Once

	// waitEndChannel is closed when process exited and exitCode is set.
	waitEndChannel chan struct{}
	exitCode       int
	waitErr        error
}

func newLocalTask(cmd *exec.Cmd, commandLine string) *localTask {
	return &localTask{
		cmd:            cmd,
		commandLine:    commandLine,
		pid:            cmd.Process.Pid,
		lines:          make(chan string),
		stopped:        make(chan struct{}),
		waitEndChannel: make(chan struct{}),
	}
}

// run forwards output lines until the pipe is closed and then reaps the process.
func (task *localTask) run(output io.Reader) {
	defer unregister(task)
	defer close(task.waitEndChannel)

	scanner := bufio.NewScanner(output)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case task.lines <- scanner.Text():
		case <-task.stopped:
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warnf("reading output of %q failed: %s", task.commandLine, err)
		// Keep the pipe drained so the process is never blocked on write.
		io.Copy(io.Discard, output)
	}
	close(task.lines)

	// NOTE: Wait() returns an error for non-zero exit codes too. We grab the process
	// state in any case, so the error matters only when there is no state at all.
	err := task.cmd.Wait()
	if task.cmd.ProcessState == nil {
		task.exitCode = -1
		task.waitErr = errors.Wrapf(err, "waiting for %q failed", task.commandLine)
		log.Error(task.waitErr)
		return
	}

	status := task.cmd.ProcessState.Sys().(syscall.WaitStatus)
	if status.Exited() {
		// If Process exited on his own, show the exitStatus.
		task.exitCode = status.ExitStatus()
	} else {
		// Show what signal caused the termination.
		task.exitCode = -int(status.Signal())
	}

	log.Debugf("Ended %q with status code %d", task.commandLine, task.exitCode)
}

// isTerminated checks if waitEndChannel is closed.
func (task *localTask) isTerminated() bool {
	select {
	case <-task.waitEndChannel:
		return true
	default:
		return false
	}
}

// Stop terminates the local task together with the process group it leads.
// SIGTERM is sent first and SIGKILL when the group did not exit in time.
func (task *localTask) Stop() error {
	task.stopOnce.Do(func() { close(task.stopped) })
	if task.isTerminated() {
		return nil
	}

	// The kill syscall interprets a negated PID N as the process group N belongs to.
	log.Debug("Sending SIGTERM to PID ", -task.pid)
	if err := signalGroup(task.pid, syscall.SIGTERM); err != nil {
		return errors.Wrapf(err, "cannot terminate %q", task.commandLine)
	}
	if task.Wait(terminateTimeout) {
		return nil
	}

	log.Debug("Sending SIGKILL to PID ", -task.pid)
	if err := signalGroup(task.pid, syscall.SIGKILL); err != nil {
		return errors.Wrapf(err, "cannot kill %q", task.commandLine)
	}
	if !task.Wait(killTimeout) {
		return errors.Errorf("cannot terminate task %q", task.commandLine)
	}

	return nil
}

func signalGroup(pid int, signal syscall.Signal) error {
	err := syscall.Kill(-pid, signal)
	if err == syscall.ESRCH {
		// Group is already gone.
		return nil
	}
	return err
}

// Status returns a state of the task.
func (task *localTask) Status() TaskState {
	if !task.isTerminated() {
		return RUNNING
	}
	return TERMINATED
}

// ExitCode returns exit code of terminated task.
func (task *localTask) ExitCode() (int, error) {
	if !task.isTerminated() {
		return -1, errors.Errorf("task %q is still running", task.commandLine)
	}
	return task.exitCode, task.waitErr
}

// Output returns channel with merged output lines.
// The channel must be drained (or the task stopped) for the task to terminate.
func (task *localTask) Output() <-chan string {
	return task.lines
}

// Wait waits for the command to finish with the given timeout time.
// It returns true if task is terminated.
func (task *localTask) Wait(timeout time.Duration) bool {
	if task.isTerminated() {
		return true
	}

	var timeoutChannel <-chan time.Time
	if timeout != 0 {
		// In case of wait with timeout set the timeout channel.
		timeoutChannel = time.After(timeout)
	}

	select {
	case <-task.waitEndChannel:
		// If waitEndChannel is closed then task is terminated.
		return true
	case <-timeoutChannel:
		// If timeout time exceeded return then task did not terminate yet.
		return false
	}
}

func (task *localTask) String() string {
	return task.commandLine
}
