package common

import (
	"github.com/google/uuid"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestLogInternalError(t *testing.T) {
	perr := LogInternalError(errors.New("disk on fire"))
	require.Equal(t, errors.InternalError, int(perr.Code))
	require.False(t, strings.Contains(perr.Msg, "disk on fire"))
	prefix := "internal error - reference: "
	require.True(t, strings.HasPrefix(perr.Msg, prefix))
	ref := strings.TrimPrefix(perr.Msg, prefix)
	ref = strings.TrimSuffix(ref, " please consult logs for details")
	_, err := uuid.Parse(ref)
	require.NoError(t, err)
}

func TestReportableError(t *testing.T) {
	cfgErr := errors.NewInvalidConfigurationError("window-size must be > 0")
	err := ReportableError(errors.WithStack(cfgErr))
	require.Equal(t, cfgErr, err)

	err = ReportableError(errors.New("boom"))
	require.True(t, errors.HasCode(err, errors.InternalError))
}
