package gitpull

import (
	"context"
	"time"

	"github.com/cuemby/komodo-core/pkg/interpolate"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/sfcache"
)

// HoldOff is how long a completed pull's result is served to
// subsequent callers on the same working-copy path without re-pulling.
const HoldOff = 5 * time.Second

// TokenPlaceholder replaces the access token in any returned log.
const TokenPlaceholder = "<TOKEN>"

// Res is the result of one pull.
type Res struct {
	Logs        []komodo.Log
	Hash        *string
	Message     *string
	EnvFilePath *string
}

// Puller runs single-flight git pulls per working-copy path.
type Puller struct {
	repoDir string
	cache   *sfcache.Cache[Res]
}

func NewPuller(repoDir string) *Puller {
	return &Puller{repoDir: repoDir, cache: sfcache.New[Res]()}
}

// Pull performs (or returns the cached result of) a pull for args,
// running a fixed command sequence: set-url, checkout -f, pull
// --rebase --force, optional reset --hard, read commit hash/message,
// write env file, run on_pull. Any command's failure short-circuits
// the remainder; every returned log has the access token and any
// secret values replaced with a placeholder.
func (p *Puller) Pull(ctx context.Context, args CloneArgs, accessToken string, environment []string, envFilePath string, secrets map[string]string, coreReplacers []interpolate.Replacer) (Res, error) {
	path := args.Path(p.repoDir)

	res, err := p.cache.Get(path, HoldOff, func() (Res, error) {
		return p.doPull(ctx, args, path, accessToken, environment, envFilePath, secrets, coreReplacers)
	})
	return sanitize(res, accessToken, coreReplacers), err
}

func (p *Puller) doPull(ctx context.Context, args CloneArgs, path, accessToken string, environment []string, envFilePath string, secrets map[string]string, coreReplacers []interpolate.Replacer) (Res, error) {
	remoteURL := args.RemoteURL(accessToken)

	setRemote := runShell(ctx, "set git remote", path, "git remote set-url origin "+remoteURL)
	if !setRemote.Success {
		return Res{Logs: []komodo.Log{setRemote}}, nil
	}

	checkout := runShell(ctx, "checkout branch", path, "git checkout -f "+args.Branch)
	if !checkout.Success {
		return Res{Logs: []komodo.Log{checkout}}, nil
	}

	pull := runShell(ctx, "git pull", path, "git pull --rebase --force origin "+args.Branch)
	logs := []komodo.Log{pull}
	if !pull.Success {
		return Res{Logs: logs}, nil
	}

	if args.Commit != "" {
		reset := runShell(ctx, "set commit", path, "git reset --hard "+args.Commit)
		logs = append(logs, reset)
		if !reset.Success {
			return Res{Logs: logs}, nil
		}
	}

	var hash, message *string
	hashLog, h, m, err := commitHashLog(ctx, path)
	if err != nil {
		logs = append(logs, komodo.ErrorLog("latest commit", "failed to get latest commit: "+err.Error()))
		return Res{Logs: logs}, nil
	} else {
		logs = append(logs, hashLog)
		hash, message = &h, &m
	}

	envPath, envLog, err := writeEnvFile(path, envFilePath, environment, secrets)
	if envLog.Stage != "" {
		logs = append(logs, envLog)
	}
	if err != nil {
		return Res{Logs: logs, Hash: hash, Message: message}, nil
	}
	var envFilePathPtr *string
	if envPath != "" {
		envFilePathPtr = &envPath
	}

	if args.OnPull != nil && args.OnPull.Command != "" {
		onPullLog := p.runOnPull(ctx, path, *args.OnPull, secrets, coreReplacers)
		logs = append(logs, onPullLog)
	}

	return Res{Logs: logs, Hash: hash, Message: message, EnvFilePath: envFilePathPtr}, nil
}

// runOnPull runs the post-pull hook, interpolating its own secrets
// (which may differ from the environment block's) and unioning the
// resulting replacer set with coreReplacers before sanitising its own
// log.
func (p *Puller) runOnPull(ctx context.Context, repoPath string, hook komodo.SystemCommand, secrets map[string]string, coreReplacers []interpolate.Replacer) komodo.Log {
	cwd := repoPath
	if hook.Path != "" {
		cwd = repoPath + "/" + hook.Path
	}

	command := hook.Command
	var replacers []interpolate.Replacer
	if secrets != nil {
		vars := make([]komodo.Variable, 0, len(secrets))
		for name, value := range secrets {
			vars = append(vars, komodo.Variable{Name: name, Value: value, IsSecret: true})
		}
		interp := interpolate.New(vars)
		expanded, err := interp.Expand(command)
		if err != nil {
			return komodo.ErrorLog("interpolate secrets - on_pull", "failed to interpolate secrets into on_pull command: "+err.Error())
		}
		command = expanded
		replacers = interp.SecretReplacers()
	}
	replacers = append(replacers, coreReplacers...)

	onPullLog := runShell(ctx, "on pull", cwd, command)
	onPullLog.Command = interpolate.Sanitize(onPullLog.Command, replacers)
	onPullLog.Stdout = interpolate.Sanitize(onPullLog.Stdout, replacers)
	onPullLog.Stderr = interpolate.Sanitize(onPullLog.Stderr, replacers)
	return onPullLog
}

// sanitize replaces the access token and every core replacer's value
// in every log's command/stdout/stderr before returning it to the
// caller.
func sanitize(res Res, accessToken string, coreReplacers []interpolate.Replacer) Res {
	replacers := coreReplacers
	if accessToken != "" {
		replacers = append([]interpolate.Replacer{{Value: accessToken, Placeholder: TokenPlaceholder}}, replacers...)
	}
	if len(replacers) == 0 {
		return res
	}
	out := make([]komodo.Log, len(res.Logs))
	for i, l := range res.Logs {
		l.Command = interpolate.Sanitize(l.Command, replacers)
		l.Stdout = interpolate.Sanitize(l.Stdout, replacers)
		l.Stderr = interpolate.Sanitize(l.Stderr, replacers)
		out[i] = l
	}
	res.Logs = out
	return res
}
