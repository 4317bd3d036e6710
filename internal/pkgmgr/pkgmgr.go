package pkgmgr

import (
	"context"

	"keyfob/internal/config"
	"keyfob/internal/domain"
	"keyfob/internal/run"
)

// Termux drives the pkg wrapper on Android hosts.
type Termux struct {
	r run.Runner
}

func NewTermux(r run.Runner) *Termux { return &Termux{r: r} }

var _ domain.PackageManager = (*Termux)(nil)

func (t *Termux) Update(ctx context.Context) error {
	_, err := t.r.Run(ctx, run.Cmd{Name: "pkg", Args: []string{"update", "-y"}, Interactive: true})
	return err
}

func (t *Termux) Install(ctx context.Context, names ...string) error {
	args := append([]string{"install", "-y"}, names...)
	_, err := t.r.Run(ctx, run.Cmd{Name: "pkg", Args: args, Interactive: true})
	return err
}

// Apt drives apt-get through sudo on Debian-like hosts. Installs run
// interactive so sudo can collect its password on the terminal.
type Apt struct {
	r run.Runner
}

func NewApt(r run.Runner) *Apt { return &Apt{r: r} }

var _ domain.PackageManager = (*Apt)(nil)

func (a *Apt) Update(ctx context.Context) error {
	_, err := a.r.Run(ctx, run.Cmd{Name: "sudo", Args: []string{"apt-get", "update"}, Interactive: true})
	return err
}

func (a *Apt) Install(ctx context.Context, names ...string) error {
	args := append([]string{"apt-get", "install", "-y"}, names...)
	_, err := a.r.Run(ctx, run.Cmd{Name: "sudo", Args: args, Interactive: true})
	return err
}

// New returns the package manager for the host profile.
func New(profile config.Profile, r run.Runner) domain.PackageManager {
	if profile == config.ProfileTermux {
		return NewTermux(r)
	}
	return NewApt(r)
}

// Packages maps each key kind to the packages providing its tooling on the
// given profile. Debian splits the OpenSSH client out of the server package;
// Termux ships one openssh package.
func Packages(profile config.Profile) map[domain.Kind][]string {
	ssh := []string{"openssh-client"}
	if profile == config.ProfileTermux {
		ssh = []string{"openssh"}
	}
	return map[domain.Kind][]string{
		domain.KindSSH: ssh,
		domain.KindGPG: {"gnupg"},
	}
}
