package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/treebuilder/internal/config"
	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/sink"
)

// output is a render destination. finish commits the document when the
// render succeeded and discards it otherwise.
type output struct {
	io.Writer
	desc   string
	commit func() error
	abort  func()
}

// openOutput resolves --out and --upload into a destination.
//
//	""        stdout
//	"-"       stdout
//	s3://b/k  object k in bucket b
//	path      local file
//
// upload stores the document as prefix+upload in the configured bucket.
func openOutput(ctx context.Context, cfg *config.Config, stdout io.Writer, out, upload string) (*output, error) {
	if upload != "" {
		if out != "" {
			return nil, errors.Newf(errors.CategoryCLI, "--out and --upload cannot be combined")
		}
		if cfg.Storage.Bucket == "" {
			return nil, errors.New("T030").
				WithDetail("--upload needs storage.bucket in " + config.ConfigFileName)
		}
		return s3Output(ctx, cfg.Storage, cfg.Storage.Bucket, cfg.Storage.Prefix, upload), nil
	}

	if out == "" || out == "-" {
		return &output{Writer: stdout, commit: func() error { return nil }, abort: func() {}}, nil
	}

	bucket, key, isS3, err := parseS3URL(out)
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "%v", err)
	}
	if isS3 {
		return s3Output(ctx, cfg.Storage, bucket, "", key), nil
	}

	f, err := os.Create(out)
	if err != nil {
		return nil, errors.New("T010").WithDetail("Cannot create " + out).Wrap(err)
	}
	return &output{
		Writer: f,
		desc:   out,
		commit: f.Close,
		abort: func() {
			f.Close()
			os.Remove(out)
		},
	}, nil
}

func s3Output(ctx context.Context, st config.StorageConfig, bucket, prefix, name string) *output {
	obj := sink.NewS3Object(ctx, newS3API(st), bucket, prefix, name)
	return &output{
		Writer: obj,
		desc:   "s3://" + bucket + "/" + obj.Key(),
		commit: func() error {
			if err := obj.Close(); err != nil {
				return errors.New("T011").Wrap(err)
			}
			return nil
		},
		abort: func() {},
	}
}

// finish commits on success. A render error discards the destination and
// is returned unchanged.
func (o *output) finish(err error) error {
	if err != nil {
		o.abort()
		return err
	}
	if err := o.commit(); err != nil {
		return err
	}
	if o.desc != "" {
		slog.Debug("output written", "destination", o.desc)
	}
	return nil
}
