package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// Port range used for the instance lock. It stays clear of the default
// control API port.
const (
	minGuardPort = 20000
	maxGuardPort = 39999

	activateMessage = "activate"
	dialTimeout     = 500 * time.Millisecond
)

// InstanceConflictError reports the lock address held by the running instance.
type InstanceConflictError struct {
	Address string
	// Notified is true when the running instance accepted the activation request.
	Notified bool
}

func (err *InstanceConflictError) Error() string {
	return fmt.Sprintf("%s on %s", ErrAlreadyRunning, err.Address)
}

func (err *InstanceConflictError) Unwrap() error {
	return ErrAlreadyRunning
}

// InstanceGuard holds the single-instance lock. While held, it accepts
// activation requests from later launches of the same app ID.
type InstanceGuard struct {
	mu       sync.Mutex
	listener net.Listener
	address  string
	done     chan struct{}
}

// AcquireSingleInstance binds a loopback port derived from appID. If another
// instance holds it, that instance is asked to come to the front and an
// *InstanceConflictError is returned.
func AcquireSingleInstance(appID string) (*InstanceGuard, error) {
	address := guardAddress(appID)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, &InstanceConflictError{
			Address:  address,
			Notified: requestActivation(address) == nil,
		}
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// OnActivate calls handler, on its own goroutine, each time a later launch
// asks this instance to show itself. Only the first call has an effect.
func (guard *InstanceGuard) OnActivate(handler func()) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.listener == nil || guard.done != nil {
		return
	}
	guard.done = make(chan struct{})
	go guard.serve(guard.listener, guard.done, handler)
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	listener := guard.listener
	done := guard.done
	guard.listener = nil
	guard.done = nil
	guard.mu.Unlock()

	if listener == nil {
		return nil
	}
	err := listener.Close()
	if done != nil {
		<-done
	}
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve(listener net.Listener, done chan struct{}, handler func()) {
	defer close(done)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
		if strings.TrimSpace(line) == activateMessage && handler != nil {
			handler()
		}
	}
}

func requestActivation(address string) error {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(dialTimeout))
	_, err = conn.Write([]byte(activateMessage + "\n"))
	return err
}

func guardAddress(appID string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appID))
}

func portFromName(appID string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appID))
	rangeSize := maxGuardPort - minGuardPort + 1
	return minGuardPort + int(hash.Sum32()%uint32(rangeSize))
}
