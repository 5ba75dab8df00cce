package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and answers from a map keyed by command name
type fakeRunner struct {
	outputs map[string]string
	fail    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	return []byte(f.outputs[name]), nil
}

func hostRunner(t *testing.T) *fakeRunner {
	t.Helper()
	outputs := make(map[string]string)
	for _, kind := range []ReportKind{ReportLV, ReportPV, ReportVG, ReportLsblk} {
		data, err := os.ReadFile(filepath.Join("testdata", "host", FixtureFile(kind)))
		require.NoError(t, err)
		name := kind.Command()
		if kind == ReportLsblk {
			name = "lsblk"
		}
		outputs[name] = string(data)
	}
	return &fakeRunner{outputs: outputs}
}

func TestLoadFixture(t *testing.T) {
	inv, err := Load(context.Background(), &FixtureSource{Dir: filepath.Join("testdata", "host")}, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, inv.LVs, 5)
	assert.Len(t, inv.PVs, 2)
	assert.Len(t, inv.VGs, 2)
	require.Len(t, inv.Forest, 3)

	assert.Equal(t, "pool0", inv.LVs[0].Name)
	assert.True(t, inv.LVs[0].IsThinPool())
	assert.Equal(t, "/dev/sdb", inv.PVs[1].Name)
	assert.Equal(t, "sda", inv.Forest[0].Name)
	assert.Len(t, inv.Forest[0].Children, 2)
}

func TestLoadFixtureMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(context.Background(), &FixtureSource{Dir: dir}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadFixtureMalformed(t *testing.T) {
	_, err := Load(context.Background(), &FixtureSource{Dir: filepath.Join("testdata", "broken")}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "pool_lv")
}

func TestLoadLive(t *testing.T) {
	runner := hostRunner(t)

	inv, err := Load(context.Background(), &LiveSource{Runner: runner}, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, inv.LVs, 5)

	assert.Equal(t, []string{
		"lvs --reportformat json",
		"pvs --reportformat json",
		"vgs --reportformat json",
		"lsblk -J -o NAME,TYPE,SIZE,MOUNTPOINT",
	}, runner.calls)
}

func TestLoadLiveByteSizes(t *testing.T) {
	runner := hostRunner(t)

	_, err := Load(context.Background(), &LiveSource{Runner: runner, ByteSizes: true}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "lsblk -J -o NAME,TYPE,SIZE,MOUNTPOINT -b", runner.calls[3])
}

func TestLoadLiveCommandFailure(t *testing.T) {
	runner := hostRunner(t)
	runner.fail = map[string]error{"pvs": fmt.Errorf("exit status 5")}

	inv, err := Load(context.Background(), &LiveSource{Runner: runner}, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrMalformedRecord)

	// nothing after the failing report is attempted
	assert.Len(t, runner.calls, 2)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := hostRunner(t)
	_, err := Load(ctx, &LiveSource{Runner: runner}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Empty(t, runner.calls)
}

func TestLiveSourceUnknownKind(t *testing.T) {
	src := &LiveSource{Runner: &fakeRunner{}}
	_, err := src.Report(context.Background(), ReportKind("segs"))
	assert.Error(t, err)
}
