package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/robotalks/sendbin/pkg/mqtt"
	"github.com/robotalks/sendbin/pkg/runner"
)

var (
	mqttURL = "mqtt://localhost:1883/"
)

func init() {
	if val := os.Getenv("SENDBIN_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "xfermon-"+mqtt.HostID())
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	q.Sub(mqtt.ProgressTopic, mqtt.Handler(func(topic string, payload []byte) {
		msg, err := mqtt.DecodeProgress(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Println(msg.String())
	}))

	ctx, cancel := runner.WithSignals(context.Background())
	defer cancel()
	<-ctx.Done()
}
