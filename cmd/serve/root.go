package serve

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ValentinKolb/sKV/cmd/util"
	"github.com/ValentinKolb/sKV/lib/store/lstore"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = common.DefaultServerConfig()
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the sKV server",
		Long:    `Start the sKV server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SKV_<flag> (e.g. SKV_MAX_REQUEST_SIZE=4096)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, common.DefaultEndpoint, util.WrapString("The address on which the server will listen (e.g. 0.0.0.0:8080 for tcp or /tmp/skv.sock for unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, util.WrapString("Read and write timeout in seconds per connection (0 = no timeout)"))

	key = "max-request-size"
	ServeCmd.PersistentFlags().Int64(key, common.DefaultMaxRequestBytes, util.WrapString("Largest accepted request in bytes (0 = unlimited)"))

	key = "engine"
	ServeCmd.PersistentFlags().String(key, common.DefaultEngine, util.WrapString("The storage engine to use (maple, locked)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", util.WrapString("Address of the Prometheus metrics endpoint (e.g. 127.0.0.1:9090), empty disables it"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, common.DefaultLogLevel, util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	util.SetupSocketFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	socketConf, tcpConf := util.GetSocketConf()

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MaxRequestBytes = viper.GetInt64("max-request-size")
	serveCmdConfig.Engine = viper.GetString("engine")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		SocketConf: socketConf,
		TCPConf:    tcpConf,
	}

	if serveCmdConfig.TimeoutSecond < 0 {
		return errors.New("timeout must not be negative")
	}
	if serveCmdConfig.MaxRequestBytes < 0 {
		return errors.New("max-request-size must not be negative")
	}

	return nil
}

// run starts the sKV server and blocks until it is stopped by a signal
func run(_ *cobra.Command, _ []string) error {
	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	factory, err := util.GetDBFactory(serveCmdConfig.Engine)
	if err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		serveCmdConfig,
		t,
		s,
		lstore.NewLocalStore(factory),
	)

	// stop accepting on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = serv.Close()
	}()

	return serv.Serve()
}
