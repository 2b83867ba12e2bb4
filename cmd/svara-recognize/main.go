package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/internal/audio"
	"github.com/nareswara/svara/internal/auth"
	"github.com/nareswara/svara/internal/client"
	"github.com/nareswara/svara/internal/config"
	"github.com/nareswara/svara/internal/logging"
	"github.com/nareswara/svara/internal/metrics"
)

func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	audioFile := flag.String("audio-file", "", "path to a mono 16-bit PCM WAV file")
	language := flag.String("language", string(env.Language), "recognition language")
	topic := flag.String("topic", "GENERIC", "recognition topic")
	sampleRate := flag.Int("sample-rate", 0, "override the sample rate declared in the WAV header")
	chunkSize := flag.Int("chunk-size", 20000, "audio chunk size in bytes, 0 sends the audio whole")
	host := flag.String("host", env.Host, "service address")
	secure := flag.Bool("secure", env.Secure, "use TLS transport")
	tokenFile := flag.String("token-file", env.TokenFile, "path of the access token file")
	clientID := flag.String("client-id", env.ClientID, "auth client id")
	clientSecret := flag.String("client-secret", env.ClientSecret, "auth client secret")
	authURL := flag.String("auth-url", env.AuthURL, "base URL of the token endpoint")
	diarization := flag.Bool("diarization", false, "enable speaker diarization")
	formatting := flag.Bool("formatting", false, "enable transcript formatting")
	asrVersion := flag.String("asr-version", "", "requested recognizer version")
	label := flag.String("label", "", "label recorded in metrics output")
	inactivityTimeout := flag.Duration("inactivity-timeout", 10*time.Second, "abort when the stream stays silent this long")
	metricsFile := flag.String("metrics-file", "", "write a metrics report to this path")
	reference := flag.String("reference", "", "reference transcript for accuracy scoring")
	verbosity := flag.String("v", env.LogLevel, "log level, one of "+strings.Join(logging.LevelOptions(), "|"))
	flag.Parse()

	logger, err := logging.New(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *audioFile == "" {
		logger.Fatal("An audio file is required")
	}

	wav, err := audio.ReadFile(*audioFile)
	if err != nil {
		logger.Fatal("Failed to read audio", zap.String("path", *audioFile), zap.Error(err))
	}
	rate := wav.SampleRate
	if *sampleRate > 0 {
		rate = *sampleRate
	}

	options := client.Options{
		Host:              *host,
		Secure:            *secure,
		InactivityTimeout: *inactivityTimeout,
		ChunkSize:         *chunkSize,
		Logger:            logger,
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

	recognizer, err := client.NewRecognizer(options)
	if err != nil {
		logger.Fatal("Failed to connect", zap.String("host", *host), zap.Error(err))
	}
	defer recognizer.Close()

	recognitionTopic, err := entities.ParseTopicName(*topic)
	if err != nil {
		logger.Fatal("Invalid topic", zap.Error(err))
	}

	request := rpc.RecognitionConfig{
		Parameters: rpc.RecognitionParameters{
			Language:          *language,
			SampleRateHz:      rate,
			EnableFormatting:  *formatting,
			EnableDiarization: *diarization,
		},
		Resource: rpc.RecognitionResource{Topic: int32(recognitionTopic)},
		Version:  *asrVersion,
		Label:    *label,
	}

	started := time.Now()
	result, err := recognizer.Recognize(context.Background(), wav.Data, request)
	if err != nil {
		logger.Fatal("Recognition failed", zap.Error(err))
	}

	for _, partial := range result.Partials {
		logger.Info("Partial hypothesis", zap.String("transcript", partial))
	}
	logger.Info("Recognition finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.Duration("audio", result.AudioDuration))

	fmt.Println(result.Transcript)

	if *metricsFile != "" {
		report := metrics.Report{
			Label:        *label,
			Transcript:   result.Transcript,
			AudioSeconds: result.AudioDuration.Seconds(),
		}
		if *reference != "" {
			report.Accuracy = metrics.Accuracy(*reference, result.Transcript)
			report.OOVRate = metrics.OOVRate(result.Transcript, metrics.Vocabulary(strings.Fields(*reference)))
		}
		if err := metrics.WriteFile(*metricsFile, report); err != nil {
			logger.Fatal("Failed to write metrics", zap.String("path", *metricsFile), zap.Error(err))
		}
	}
}
