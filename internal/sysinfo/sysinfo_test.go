package sysinfo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysup/sysup/internal/common/run"
)

func TestCollectFieldLabels(t *testing.T) {
	mock := &run.MockRunner{
		OutputFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			switch name {
			case "uname":
				return "6.10.1-arch1-1\n", nil
			case "lscpu":
				return "Architecture: x86_64\nModel name: AMD Ryzen 7 5800X\n", nil
			case "free":
				return "      total used\nMem:  31Gi  12Gi\n", nil
			case "df":
				return "Filesystem Size Used\n/dev/sda1  512G 200G\n", nil
			}
			return "", nil
		},
	}

	fields := Collect(context.Background(), mock)
	require.NotEmpty(t, fields)

	byLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		byLabel[f.Label] = f.Value
	}

	assert.Equal(t, "6.10.1-arch1-1", byLabel["Kernel"])
	assert.Equal(t, "AMD Ryzen 7 5800X", byLabel["CPU"])
	assert.Equal(t, "31Gi", byLabel["RAM"])
	assert.Equal(t, "512G", byLabel["Disk (root)"])
	assert.Equal(t, "pacman", byLabel["Package Manager"])
}

func TestCollectDegradesToUnknown(t *testing.T) {
	mock := &run.MockRunner{
		OutputFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("not found")
		},
	}

	fields := Collect(context.Background(), mock)
	byLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		byLabel[f.Label] = f.Value
	}

	assert.Equal(t, "Unknown", byLabel["Kernel"])
	assert.Equal(t, "Unknown", byLabel["CPU"])
	assert.Equal(t, "Unknown", byLabel["RAM"])
}
