package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// ContextEnvVar is the environment variable carrying the scheduler bootstrap
// context as an "<address>:<port>:<task_id>" triplet.
const ContextEnvVar = "GRIDWORK_CONTEXT"

var (
	ErrContextMissing   = errors.New("scheduler context not found")
	ErrContextMalformed = errors.New("scheduler context incorrectly formatted")
)

// Context identifies the scheduler endpoint and this worker's task.
type Context struct {
	Addr   string
	Port   int
	TaskID string
}

// SchedulerAddr returns the dialable "host:port" form of the context.
func (c Context) SchedulerAddr() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

// ParseContext parses an "<address>:<port>:<task_id>" triplet.
func ParseContext(s string) (Context, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Context{}, fmt.Errorf("%w: %q", ErrContextMalformed, s)
	}
	addr, portStr, taskID := parts[0], parts[1], parts[2]
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Context{}, fmt.Errorf("%w: invalid port %q", ErrContextMalformed, portStr)
	}
	if addr == "" || taskID == "" {
		return Context{}, fmt.Errorf("%w: %q", ErrContextMalformed, s)
	}
	return Context{Addr: addr, Port: port, TaskID: taskID}, nil
}

// ContextFromEnv reads and parses the bootstrap context from the
// environment. A missing variable and a malformed value are distinct errors.
func ContextFromEnv() (Context, error) {
	value, ok := os.LookupEnv(ContextEnvVar)
	if !ok {
		return Context{}, fmt.Errorf("%w: %s environment variable not set", ErrContextMissing, ContextEnvVar)
	}
	return ParseContext(value)
}
