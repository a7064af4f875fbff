// Command rwmatch performs the two-stream temporal join between a query
// file and a response file, writing matched and (optionally) unmatched
// records to per-side output files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flowsilk/flowpack/entries"
	"github.com/flowsilk/flowpack/header"
	"github.com/flowsilk/flowpack/match"
	"github.com/flowsilk/flowpack/side"
	"github.com/flowsilk/flowpack/stream"
	"github.com/rs/zerolog"
)

var (
	optRelate  = flag.String("relate", "sip/dip,dip/sip,protocol/protocol,sport/dport,dport/sport", "comma-separated query/response field pairs")
	optDelta   = flag.Duration("time-delta", 30*time.Second, "match-extension time window")
	optKind    = flag.String("delta-kind", "absolute", "absolute, relative, or infinite")
	optSymm    = flag.Bool("symmetric", false, "require the time window to hold in both directions at establishment")
	optOutQ    = flag.String("output-query", "", "path for matched/unmatched query records (required)")
	optOutR    = flag.String("output-response", "", "path for matched/unmatched response records (required)")
	optUnmQ    = flag.Bool("unmatched-query", false, "include unmatched query records in the output")
	optUnmR    = flag.Bool("unmatched-response", false, "include unmatched response records in the output")
	optVerbose = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 || *optOutQ == "" || *optOutR == "" {
		fmt.Fprintf(os.Stderr, "usage: rwmatch [OPTIONS] -output-query=FILE -output-response=FILE <query-file> <response-file>\n")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *optVerbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(&log); err != nil {
		log.Fatal().Err(err).Msg("rwmatch failed")
	}
}

func run(log *zerolog.Logger) error {
	relate, err := parseRelate(*optRelate)
	if err != nil {
		return err
	}
	kind, err := parseKind(*optKind)
	if err != nil {
		return err
	}

	policy := match.Policy{Relate: relate, Delta: *optDelta, Kind: kind, Symmetric: *optSymm}

	registry := header.NewRegistry(entries.NewFuncs)

	query, err := openInput(flag.Arg(0), registry)
	if err != nil {
		return fmt.Errorf("opening query file: %w", err)
	}
	defer query.Destroy()

	response, err := openInput(flag.Arg(1), registry)
	if err != nil {
		return fmt.Errorf("opening response file: %w", err)
	}
	defer response.Destroy()

	outQuery, err := openOutput(*optOutQ, query, registry)
	if err != nil {
		return fmt.Errorf("opening query output: %w", err)
	}
	defer outQuery.Destroy()

	outResponse, err := openOutput(*optOutR, response, registry)
	if err != nil {
		return fmt.Errorf("opening response output: %w", err)
	}
	defer outResponse.Destroy()

	eng, err := match.NewEngine(
		match.NewSource(side.QUERY, query),
		match.NewSource(side.RESPONSE, response),
		policy,
		match.EngineOptions{
			OutQuery:          outQuery,
			OutResponse:       outResponse,
			UnmatchedQuery:    *optUnmQ,
			UnmatchedResponse: *optUnmR,
			Logger:            log,
		},
	)
	if err != nil {
		return fmt.Errorf("configuring join: %w", err)
	}

	if err := eng.Run(); err != nil {
		return fmt.Errorf("running join: %w", err)
	}

	log.Info().
		Uint64("matches", eng.Stats.Matches).
		Uint64("unmatched_query", eng.Stats.UnmatchedQuery).
		Uint64("unmatched_response", eng.Stats.UnmatchedResponse).
		Msg("done")
	return nil
}

func openInput(path string, registry *header.Registry) (*stream.Stream, error) {
	s := stream.Create(stream.READ, stream.CONTENT_SILK_FLOW)
	s.Options.Registry = registry
	s.Bind(path)
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// openOutput mirrors src's file format/version and byte order, so matched
// records round-trip through the same codec they were read with.
func openOutput(path string, src *stream.Stream, registry *header.Registry) (*stream.Stream, error) {
	s := stream.Create(stream.WRITE, stream.CONTENT_SILK_FLOW)
	s.Options.Registry = registry
	s.Options.ByteOrder = src.Options.ByteOrder
	s.Header.FileFormat = src.Header.FileFormat
	s.Header.RecordVersion = src.Header.RecordVersion
	s.Header.Copy(&src.Header, stream.COPY_NOT_INVOCATIONS)

	s.Bind(path)
	if err := s.Open(); err != nil {
		return nil, err
	}
	if err := s.WriteHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseRelate(spec string) ([]match.RelatePair, error) {
	var out []match.RelatePair
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		parts := strings.SplitN(term, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("rwmatch: malformed relate pair %q", term)
		}
		q, err := match.FieldString(parts[0])
		if err != nil {
			return nil, err
		}
		r, err := match.FieldString(parts[1])
		if err != nil {
			return nil, err
		}
		out = append(out, match.RelatePair{Query: q, Response: r})
	}
	return out, nil
}

func parseKind(s string) (match.DeltaKind, error) {
	switch s {
	case "absolute":
		return match.ABSOLUTE, nil
	case "relative":
		return match.RELATIVE, nil
	case "infinite":
		return match.INFINITE, nil
	default:
		return 0, fmt.Errorf("rwmatch: unknown delta-kind %q", s)
	}
}
