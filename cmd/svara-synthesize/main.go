package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/internal/auth"
	"github.com/nareswara/svara/internal/client"
	"github.com/nareswara/svara/internal/config"
	"github.com/nareswara/svara/internal/logging"
)

func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	text := flag.String("text", "", "text to synthesize")
	voice := flag.String("voice", "", "voice name")
	language := flag.String("language", string(env.Language), "synthesis language")
	sampleRate := flag.Int("sample-rate", 16000, "output sample rate in Hz")
	output := flag.String("output", "synthesis.wav", "output WAV path")
	host := flag.String("host", env.Host, "service address")
	secure := flag.Bool("secure", env.Secure, "use TLS transport")
	tokenFile := flag.String("token-file", env.TokenFile, "path of the access token file")
	clientID := flag.String("client-id", env.ClientID, "auth client id")
	clientSecret := flag.String("client-secret", env.ClientSecret, "auth client secret")
	authURL := flag.String("auth-url", env.AuthURL, "base URL of the token endpoint")
	verbosity := flag.String("v", env.LogLevel, "log level, one of "+strings.Join(logging.LevelOptions(), "|"))
	flag.Parse()

	logger, err := logging.New(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *text == "" {
		logger.Fatal("A text to synthesize is required")
	}

	options := client.Options{
		Host:   *host,
		Secure: *secure,
		Logger: logger,
	}
	if *authURL != "" {
		manager, err := auth.NewTokenManager(auth.TokenManagerConfig{
			Path:         *tokenFile,
			AuthURL:      *authURL,
			ClientID:     *clientID,
			ClientSecret: *clientSecret,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to set up token manager", zap.Error(err))
		}
		options.TokenSource = manager
	}

	synthesizer, err := client.NewSynthesizer(options)
	if err != nil {
		logger.Fatal("Failed to connect", zap.String("host", *host), zap.Error(err))
	}
	defer synthesizer.Close()

	selection := rpc.VoiceSelection{
		VoiceID:      *voice,
		Language:     *language,
		SampleRateHz: *sampleRate,
	}
	if err := synthesizer.SynthesizeToFile(context.Background(), *text, selection, *output); err != nil {
		logger.Fatal("Synthesis failed", zap.Error(err))
	}

	logger.Info("Synthesis finished", zap.String("output", *output))
}
