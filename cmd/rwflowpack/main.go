// Command rwflowpack classifies incoming flow records against a site
// configuration and packs them into per-(probe, flowtype, sensor) output
// files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flowsilk/flowpack/classify"
	"github.com/flowsilk/flowpack/config"
	"github.com/flowsilk/flowpack/entries"
	"github.com/flowsilk/flowpack/header"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/recordio"
	"github.com/flowsilk/flowpack/stream"
	"github.com/rs/zerolog"
)

var (
	optSite    = flag.String("site", "site.yaml", "site configuration file")
	optProbe   = flag.String("probe", "", "name of the probe the input belongs to")
	optOutDir  = flag.String("out", ".", "output directory for packed files")
	optIPv6    = flag.String("ipv6-policy", "ignore", "ignore, asv4, mix, force, or only")
	optVerbose = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: rwflowpack [OPTIONS] <input-file>\n")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *optVerbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(&log); err != nil {
		log.Fatal().Err(err).Msg("rwflowpack failed")
	}
}

func run(log *zerolog.Logger) error {
	site, err := config.Load(*optSite)
	if err != nil {
		return fmt.Errorf("loading site configuration: %w", err)
	}

	p := site.Probes.ByName(*optProbe)
	if p == nil {
		return fmt.Errorf("unknown probe %q", *optProbe)
	}

	policy, err := ipv6PolicyString(*optIPv6)
	if err != nil {
		return err
	}

	registry := header.NewRegistry(entries.NewFuncs)

	in := stream.Create(stream.READ, stream.CONTENT_SILK_FLOW)
	in.Options.Registry = registry
	if err := in.SetIPv6Policy(policy); err != nil {
		return err
	}
	in.Bind(flag.Arg(0))
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Destroy()

	outputs := make(map[outKey]*stream.Stream)
	defer func() {
		for _, s := range outputs {
			s.Destroy()
		}
	}()

	var rec record.Record
	ftypes := make([]classify.Flowtype, p.SensorCount())
	sensors := make([]probe.SensorID, p.SensorCount())
	var recCount uint64

	for {
		rec.Reset()
		if err := in.ReadRecord(&rec); err != nil {
			if err == stream.ErrEOF {
				break
			}
			return fmt.Errorf("reading record %d: %w", recCount, err)
		}
		recCount++

		n, err := site.Classifier.Classify(p, &rec, ftypes, sensors)
		if err != nil {
			return fmt.Errorf("classifying record %d: %w", recCount, err)
		}

		for i := 0; i < n; i++ {
			ft, sid := ftypes[i], sensors[i]
			format, version := site.Classifier.SelectFormat(p, ft, policy != stream.IPV6_IGNORE)
			out, err := outputFor(outputs, *optOutDir, p, ft, sid, format, version, policy, registry, log)
			if err != nil {
				return err
			}
			if err := out.WriteRecord(&rec); err != nil {
				return fmt.Errorf("writing record %d: %w", recCount, err)
			}
		}
	}

	log.Info().Uint64("records", recCount).Int("outputs", len(outputs)).Msg("done")
	return nil
}

type outKey struct {
	flowtype classify.Flowtype
	sensor   probe.SensorID
}

func outputFor(outputs map[outKey]*stream.Stream, dir string, p *probe.Probe, ft classify.Flowtype, sid probe.SensorID, format recordio.Format, version recordio.Version, policy stream.IPv6Policy, registry *header.Registry, log *zerolog.Logger) (*stream.Stream, error) {
	key := outKey{ft, sid}
	if s, ok := outputs[key]; ok {
		return s, nil
	}

	path := fmt.Sprintf("%s/%s-%s-%d.rw", dir, p.Name, ft, sid)
	s := stream.Create(stream.WRITE, stream.CONTENT_SILK_FLOW)
	s.Options.Registry = registry
	if err := s.SetIPv6Policy(policy); err != nil {
		return nil, err
	}
	s.Header.FileFormat = format
	s.Header.RecordVersion = version
	s.Header.Entries = append(s.Header.Entries, &entries.ProbeName{Name: p.Name})

	s.Bind(path)
	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening output %s: %w", path, err)
	}
	if err := s.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing header for %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("opened output file")
	outputs[key] = s
	return s, nil
}

func ipv6PolicyString(s string) (stream.IPv6Policy, error) {
	switch s {
	case "ignore":
		return stream.IPV6_IGNORE, nil
	case "asv4":
		return stream.IPV6_ASV4, nil
	case "mix":
		return stream.IPV6_MIX, nil
	case "force":
		return stream.IPV6_FORCE, nil
	case "only":
		return stream.IPV6_ONLY, nil
	default:
		return 0, fmt.Errorf("unknown ipv6 policy %q", s)
	}
}
