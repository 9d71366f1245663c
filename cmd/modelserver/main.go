// Command modelserver serves predictions from a deployment package produced
// by the deployment stage.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"mlpipeline/pkg/serve"
)

func main() {
	dir := flag.String("dir", "./outputs/deployment", "deployment package directory")
	addr := flag.String("addr", ":5000", "listen address")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Timestamp().Logger()

	ctx, err := serve.Load(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to load deployment package")
	}
	log.Info().
		Str("model", ctx.Info.ModelType).
		Stringer("problem_type", ctx.Info.ProblemType).
		Str("addr", *addr).
		Msg("serving model")

	srv := serve.NewServer(ctx, log)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
