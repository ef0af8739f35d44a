package download

import (
	"context"
	"fmt"

	"github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/engine"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common"
	"github.com/WS-QA/OSSGadget/util/common/errors"
	"github.com/WS-QA/OSSGadget/util/common/fileutil"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// job downloads every selected version of one purl. It owns the row slot
// it writes to.
type job struct {
	svc    *Service
	purl   string
	opts   Options
	out    *[]Result
	logger zerolog.Logger

	id       types.Identifier
	adapter  adapter.Adapter
	versions []string
}

func newJob(svc *Service, purl string, opts Options, out *[]Result) engine.Job {
	return &job{
		svc:    svc,
		purl:   purl,
		opts:   opts,
		out:    out,
		logger: log.With().Str("job_type", "download").Str("purl", purl).Logger(),
	}
}

func (j *job) Info() string {
	return j.purl
}

func (j *job) fail(err error) error {
	*j.out = []Result{{
		Purl:     j.purl,
		Registry: types.RegistryTypeOf(j.id),
		Version:  j.id.Version,
		Status:   types.StatusNotFound,
		Error:    err.Error(),
	}}
	j.svc.reporter.Error(fmt.Sprintf("%s: %v", j.purl, err))
	return err
}

func (j *job) Prepare(ctx context.Context) error {
	id, a, err := j.svc.resolve(ctx, j.purl)
	j.id = id
	if err != nil {
		return j.fail(err)
	}
	j.adapter = a

	versions, err := SelectVersions(ctx, a, id)
	if err != nil {
		return j.fail(errors.NewPackageError("select", types.FullName(id), id.Version, err))
	}
	if len(versions) == 0 {
		j.logger.Warn().Str("requested", id.Version).Msg("no matching version")
		*j.out = []Result{{
			Purl:     j.purl,
			Registry: a.Type(),
			Version:  id.Version,
			Status:   types.StatusNoVersion,
		}}
		j.svc.reporter.Warn(fmt.Sprintf("%s: no matching version", j.purl))
		return nil
	}
	j.versions = versions
	return nil
}

func (j *job) Run(ctx context.Context) error {
	for _, v := range j.versions {
		versioned := types.WithVersion(j.id, v)
		j.svc.reporter.Step(fmt.Sprintf("%s %s", types.Describe(versioned), j.adapter.Endpoint()))

		res, err := j.adapter.DownloadVersion(ctx, versioned, j.opts.Extract)
		if err != nil {
			return j.fail(errors.NewPackageError("download", types.FullName(j.id), v, err))
		}
		*j.out = append(*j.out, Result{
			Purl:     types.Describe(versioned),
			Registry: j.adapter.Type(),
			Version:  v,
			Status:   res.Status,
			Path:     res.Path,
			Paths:    res.Paths,
		})
	}
	return nil
}

func (j *job) Finish(context.Context) error {
	rows := *j.out
	for i := range rows {
		r := &rows[i]
		if r.Status != types.StatusFound {
			if r.Status == types.StatusNotFound && r.Error == "" {
				j.svc.reporter.Error(r.Purl + ": not found")
			}
			continue
		}
		for _, p := range r.Paths {
			n, err := fileutil.Size(p)
			if err != nil {
				j.logger.Warn().Err(err).Str("path", p).Msg("size unavailable")
				continue
			}
			r.Bytes += n
		}
		r.Size = common.GetSize(r.Bytes)
		j.svc.reporter.Success(fmt.Sprintf("%s -> %s (%s)", r.Purl, r.Path, r.Size))
	}
	return nil
}
