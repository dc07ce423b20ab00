package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/models"
)

const (
	DefaultClientID = "sprint-beacon"
	bufferCapacity  = 256
	connectTimeout  = 10 * time.Second
	publishTimeout  = 5 * time.Second
)

var errPublishTimeout = errors.New("publish timeout")

type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

// RealPublisher publishes to a broker. Messages published while the
// connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	topics Topics
	log    *logger.Logger

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher connects to cfg.Broker. Paho keeps retrying in the
// background, so a broker that is down at startup is not an error.
func NewRealPublisher(cfg Config, log *logger.Logger) (*RealPublisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker is not configured")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	log = logger.OrNop(log).Named("mqtt")
	p := &RealPublisher{
		topics: NewTopics(cfg.TopicPrefix),
		log:    log,
		buf:    newRingBuffer(bufferCapacity, log),
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			log.Infow("mqtt_connected", "broker", cfg.Broker)
			p.flush()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnw("mqtt_connection_lost", "broker", cfg.Broker, "err", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker: %w", token.Error())
	}
	return p, nil
}

func (p *RealPublisher) PublishRun(rec models.RunRecord) error {
	payload, err := FormatRunPayload(rec)
	if err != nil {
		return fmt.Errorf("format run payload: %w", err)
	}
	// runs are QoS 1 and retained so a late subscriber sees the last result
	return p.publish(bufferedMsg{topic: p.topics.Runs, payload: payload, qos: 1, retained: true})
}

func (p *RealPublisher) PublishEvent(ev models.BeaconEvent) error {
	payload, err := FormatEventPayload(ev)
	if err != nil {
		return fmt.Errorf("format event payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: p.topics.Events, payload: payload})
}

func (p *RealPublisher) IsConnected() bool { return p.client.IsConnectionOpen() }

func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}
	return p.send(msg)
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return errPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// flush replays buffered messages. It runs on paho's callback goroutine.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()
	if len(msgs) == 0 {
		return
	}
	p.log.Infow("mqtt_replaying_buffer", "count", len(msgs))
	go func() {
		for _, m := range msgs {
			if err := p.send(m); err != nil {
				p.log.Warnw("mqtt_replay_failed", "topic", m.topic, "err", err)
			}
		}
	}()
}
