package kafka

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	require.Nil(t, ParseBrokers(""))
}
