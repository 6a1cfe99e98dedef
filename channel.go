package spindle

import (
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spindle-io/spindle/bitutil"
	"github.com/spindle-io/spindle/broadcast"
	"github.com/spindle-io/spindle/bytebuf"
)

// EraseFileOnStop if set to true, will also delete the channel file when a
// channel is stopped
var EraseFileOnStop = false

// ChannelIDBitLength is the bit length of the id derived from a channel's
// name
const ChannelIDBitLength = 32

func channelFileLocation(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return "", errors.New("name cannot have path separator")
	}

	return path.Join(RootPath, name+".chan"), nil
}

// Channel is the transmitting side of a named broadcast stream over a
// memory-mapped file. One process creates and starts a Channel; any number
// of processes Subscribe to the same name and poll for messages.
type Channel struct {
	sync.Mutex
	name     string
	loc      string // absolute location of the channel file
	id       uint64 // identifier derived from the channel name
	capacity int    // message region size in bytes
	buffer   *bytebuf.MemoryMappedBuffer
	tx       *broadcast.Transmitter
	mapped   bool
}

// NewChannel creates a channel with the given name and message-region
// capacity, which must be a power of two.
func NewChannel(name string, capacity int) (*Channel, error) {
	if !bitutil.IsPowerOfTwo(capacity) {
		return nil, errors.Errorf("channel capacity %v is not a power of two", capacity)
	}

	loc, err := channelFileLocation(name)
	if err != nil {
		return nil, err
	}

	if logging {
		logger.Info("deduced location to write the channel file",
			zap.String("prefix", "channel"),
			zap.String("location", loc),
		)
	}

	return &Channel{
		name:     name,
		loc:      loc,
		id:       hash(name, ChannelIDBitLength),
		capacity: capacity,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// ID returns the identifier derived from the channel name.
func (c *Channel) ID() uint64 { return c.id }

// Location returns the absolute path of the channel file.
func (c *Channel) Location() string { return c.loc }

// Capacity returns the message region size in bytes.
func (c *Channel) Capacity() int { return c.capacity }

// Start creates the channel file, maps it and readies the transmitter.
func (c *Channel) Start() error {
	c.Lock()
	defer c.Unlock()

	if c.mapped {
		return errors.New("trying to start an already started channel")
	}

	size := c.capacity + broadcast.TrailerLength
	buffer, err := bytebuf.NewMemoryMappedBuffer(c.loc, size)
	if err != nil {
		return errors.Wrap(err, "cannot create MemoryMappedBuffer")
	}

	tx, err := broadcast.NewTransmitter(buffer)
	if err != nil {
		buffer.Unmap(true)
		return errors.Wrap(err, "cannot create broadcast transmitter")
	}

	c.buffer = buffer
	c.tx = tx
	c.mapped = true

	if logging {
		logger.Info("started channel",
			zap.String("prefix", "channel"),
			zap.String("name", c.name),
			zap.Int("capacity", c.capacity),
			zap.Int("maxMsgLength", tx.MaxMsgLength()),
		)
	}

	return nil
}

// MustStart is a Start that panics on failure.
func (c *Channel) MustStart() {
	if err := c.Start(); err != nil {
		panic(err)
	}
}

// Transmit broadcasts one message of the given type carrying length bytes
// of src starting at srcOffset.
func (c *Channel) Transmit(msgTypeID int32, src bytebuf.Buffer, srcOffset, length int) error {
	c.Lock()
	defer c.Unlock()

	if !c.mapped {
		return errors.New("cannot transmit on a stopped channel")
	}

	return c.tx.Transmit(msgTypeID, src, srcOffset, length)
}

// MaxMsgLength returns the largest payload Transmit accepts. The channel
// must be started.
func (c *Channel) MaxMsgLength() int {
	c.Lock()
	defer c.Unlock()

	if !c.mapped {
		return 0
	}
	return c.tx.MaxMsgLength()
}

// Stop removes the existing mapping and cleans up.
func (c *Channel) Stop() error {
	c.Lock()
	defer c.Unlock()

	if !c.mapped {
		return errors.New("trying to stop an already stopped channel")
	}

	if logging {
		logger.Info("stopping the channel",
			zap.String("prefix", "channel"),
			zap.String("name", c.name),
		)
	}

	c.mapped = false
	err := c.buffer.Unmap(EraseFileOnStop)
	c.buffer = nil
	c.tx = nil
	if err != nil {
		return errors.Wrap(err, "error unmapping MemoryMappedBuffer")
	}

	return nil
}

// MustStop is a Stop that panics on failure.
func (c *Channel) MustStop() {
	if err := c.Stop(); err != nil {
		panic(err)
	}
}

// Subscription is the receiving side of a named channel: an independent
// mapping of the channel file with a private cursor. Poll it from one
// goroutine at a time.
type Subscription struct {
	name   string
	loc    string
	buffer *bytebuf.MemoryMappedBuffer
	rx     *broadcast.CopyReceiver
}

// Subscribe maps an existing channel by name and returns a Subscription
// positioned at the start of the stream.
func Subscribe(name string) (*Subscription, error) {
	loc, err := channelFileLocation(name)
	if err != nil {
		return nil, err
	}

	buffer, err := bytebuf.OpenMemoryMappedBuffer(loc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot map channel file")
	}

	receiver, err := broadcast.NewReceiver(buffer)
	if err != nil {
		buffer.Unmap(false)
		return nil, errors.Wrap(err, "cannot create broadcast receiver")
	}

	if logging {
		logger.Info("subscribed to channel",
			zap.String("prefix", "channel"),
			zap.String("name", name),
			zap.String("location", loc),
		)
	}

	return &Subscription{
		name:   name,
		loc:    loc,
		buffer: buffer,
		rx:     broadcast.NewCopyReceiver(receiver),
	}, nil
}

// Name returns the channel name.
func (s *Subscription) Name() string { return s.name }

// Poll delivers at most one pending message to handler, returning the
// number delivered. A broadcast.ErrLapped return means the transmitter
// overran this subscriber and the skipped messages are gone; polling again
// resumes from the newest data.
func (s *Subscription) Poll(handler broadcast.Handler) (int, error) {
	n, err := s.rx.Receive(handler)
	if err == broadcast.ErrLapped && logging {
		logger.Warn("subscriber lapped by transmitter",
			zap.String("prefix", "channel"),
			zap.String("name", s.name),
			zap.Int64("lappedCount", s.rx.LappedCount()),
		)
	}
	return n, err
}

// LappedCount returns how many times this subscriber has been overrun.
func (s *Subscription) LappedCount() int64 { return s.rx.LappedCount() }

// Close unmaps the channel file. The subscription must not be polled
// afterwards.
func (s *Subscription) Close() error {
	return s.buffer.Unmap(false)
}
