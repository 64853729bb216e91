package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerplan/core/notify"
	"github.com/kilianp07/powerplan/infra/mqtt"
)

var watchBroker string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the plan notifications published on MQTT",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchBroker, "broker", "", "broker URL, overrides mqtt.broker")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mqttCfg := cfg.MQTT
	if watchBroker != "" {
		mqttCfg.Broker = watchBroker
	}
	if mqttCfg.Broker == "" {
		return fmt.Errorf("no MQTT broker configured")
	}
	suffix := time.Now().UnixNano()
	if mqttCfg.ClientID != "" {
		mqttCfg.ClientID = fmt.Sprintf("%s-watch-%d", mqttCfg.ClientID, suffix)
	} else {
		mqttCfg.ClientID = fmt.Sprintf("powerplan-watch-%d", suffix)
	}
	client, err := mqtt.NewPahoClient(mqttCfg)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	enc := json.NewEncoder(cmd.OutOrStdout())
	return client.Subscribe(ctx, func(n notify.PlanNotification) {
		if err := enc.Encode(n); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "write notification: %v\n", err)
		}
	})
}
