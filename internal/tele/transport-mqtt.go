// Package tele receives display text over MQTT.
package tele

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexTransit/lcd44780/helpers"
	config_global "github.com/AlexTransit/lcd44780/internal/config"
	"github.com/AlexTransit/lcd44780/log2"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

const closeTimeout = 3 * time.Second

// TextCallback must not block for long, paho calls it from the network goroutine.
type TextCallback func(ctx context.Context, text string)

type Tele struct {
	log    *log2.Log
	m      mqtt.Client
	mopt   *mqtt.ClientOptions
	onText func([]byte)

	topicText    string
	topicConnect string
	qos          byte
}

func (t *Tele) Init(ctx context.Context, log *log2.Log, c *config_global.MqttStruct, onText TextCallback) error {
	if c == nil || c.Broker == "" {
		return errors.NotValidf("config: mqtt.broker is not set")
	}
	if c.Topic == "" {
		return errors.NotValidf("config: mqtt.topic is not set")
	}
	if c.Qos < 0 || c.Qos > 2 {
		return errors.NotValidf("config: mqtt.qos=%d", c.Qos)
	}
	decode, err := PayloadDecoder(c.Payload)
	if err != nil {
		return errors.Annotate(err, "config: mqtt.payload")
	}
	t.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	if c.LogDebug {
		mqtt.DEBUG = log
	}

	t.topicText = c.Topic
	t.topicConnect = fmt.Sprintf("%s/c", c.Topic)
	t.qos = byte(c.Qos)
	t.onText = func(payload []byte) {
		text, err := decode(payload)
		if err != nil {
			t.log.Errorf("mqtt topic=%s payload=%x err=%v", t.topicText, payload, err)
			return
		}
		onText(ctx, text)
	}

	clientID := helpers.ConfigDefaultStr(c.ClientID, "lcd44780")
	keepAlive := helpers.IntSecondConfigDefault(c.KeepaliveSec, 60)
	pingTimeout := helpers.IntSecondConfigDefault(c.PingTimeoutSec, 30)
	retryInterval := helpers.IntSecondConfigDefault(c.KeepaliveSec/2, 30)
	var store mqtt.Store = mqtt.NewMemoryStore()
	if c.StorePath != "" {
		store = mqtt.NewFileStore(c.StorePath)
	}
	t.mopt = mqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetBinaryWill(t.topicConnect, []byte{0x00}, 1, true).
		SetClientID(clientID).
		SetDefaultPublishHandler(t.messageHandler).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetOrderMatters(true).
		SetResumeSubs(true).SetCleanSession(false).
		SetStore(store).
		SetConnectRetryInterval(retryInterval).
		SetOnConnectHandler(t.onConnectHandler).
		SetConnectionLostHandler(t.connectLostHandler).
		SetConnectRetry(true)
	if c.Username != "" {
		t.mopt.SetUsername(c.Username).SetPassword(c.Password)
	}
	t.m = mqtt.NewClient(t.mopt)
	// with ConnectRetry token completes only on success, do not wait
	if token := t.m.Connect(); token.Error() != nil {
		return errors.Annotatef(token.Error(), "mqtt connect broker=%s", c.Broker)
	}
	t.log.Infof("mqtt broker=%s client=%s topic=%s", c.Broker, clientID, t.topicText)
	return nil
}

func (t *Tele) Close() {
	if t.m == nil {
		return
	}
	t.log.Infof("mqtt unsubscribe")
	if token := t.m.Unsubscribe(t.topicText); token.WaitTimeout(closeTimeout) && token.Error() != nil {
		t.log.Errorf("mqtt unsubscribe err=%v", token.Error())
	}
	if t.m.IsConnected() {
		t.m.Publish(t.topicConnect, 1, true, []byte{0x00}).WaitTimeout(closeTimeout)
	}
	t.m.Disconnect(uint(closeTimeout.Milliseconds()))
}

func (t *Tele) messageHandler(c mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	t.log.Debugf("mqtt income message topic=%s (%x)", msg.Topic(), payload)
	if msg.Topic() != t.topicText {
		return
	}
	t.onText(payload)
}

func (t *Tele) connectLostHandler(c mqtt.Client, err error) {
	t.log.Infof("mqtt disconnect err=%v", err)
}

func (t *Tele) onConnectHandler(c mqtt.Client) {
	t.log.Infof("mqtt connect")
	if token := c.Subscribe(t.topicText, t.qos, nil); token.Wait() && token.Error() != nil {
		t.log.Errorf("mqtt subscribe topic=%s err=%v", t.topicText, token.Error())
		return
	}
	t.log.Infof("mqtt subscribe Ok")
	c.Publish(t.topicConnect, 1, true, []byte{0x01})
}
