package servoctl

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.viam.com/rdk/logging"
)

func testServer(t *testing.T) (*Server, *MockDriver) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.Backend = "mock"
	cfg.StepDelayMs = 1

	driver := &MockDriver{}
	server, err := NewServer(cfg, driver, logging.NewTestLogger(t))
	require.NoError(t, err)
	return server, driver
}

func TestNewServerHomesServos(t *testing.T) {
	_, driver := testServer(t)

	require.Len(t, driver.Calls, ServoCount)
	for _, call := range driver.Calls {
		assert.Equal(t, MinPulseUs, call.WidthUs, "every servo starts at the minimum angle")
	}
}

func TestServerHandleMovesServos(t *testing.T) {
	server, _ := testServer(t)
	sender := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

	server.handle("90,45, ,180", sender)

	assert.Equal(t, map[int]float64{1: 90, 2: 45, 3: 0, 4: 180}, server.Engine().Angles())
}

func TestServerHandleRejectsMalformed(t *testing.T) {
	server, driver := testServer(t)
	driver.Calls = nil
	sender := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

	server.handle("200,0,0,0", sender)
	server.handle("1,2,3", sender)
	server.handle("garbage", sender)

	assert.Empty(t, driver.Calls, "rejected messages never reach hardware")
	assert.Equal(t, map[int]float64{1: 0, 2: 0, 3: 0, 4: 0}, server.Engine().Angles())
}

func TestServerRunEndToEnd(t *testing.T) {
	server, _ := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() {
		runDone <- server.Run(ctx)
	}()

	// Wait for the listener to come up.
	var addr net.Addr
	require.Eventually(t, func() bool {
		addr = server.Addr()
		return addr != nil
	}, time.Second, 5*time.Millisecond)

	conn, err := net.Dial("udp", addr.String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("10,100, , "))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		angle, err := server.Engine().Angle(2)
		return err == nil && angle == 100
	}, 10*time.Second, 10*time.Millisecond)
	assert.Equal(t, map[int]float64{1: 10, 2: 100, 3: 0, 4: 0}, server.Engine().Angles())

	cancel()
	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServerClose(t *testing.T) {
	server, driver := testServer(t)
	driver.Calls = nil

	require.NoError(t, server.Close())
	assert.True(t, driver.Closed)
	require.Len(t, driver.Calls, ServoCount)
	for _, call := range driver.Calls {
		assert.Equal(t, 0, call.WidthUs, "close parks every servo")
	}
}
