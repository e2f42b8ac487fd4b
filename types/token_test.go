package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	cases := []struct {
		text     string
		isWord   bool
		isNumber bool
		isPunct  bool
		shape    string
	}{
		{text: "dog", isWord: true, shape: "xxx"},
		{text: "Paris", isWord: true, shape: "Xxxxx"},
		{text: "42", isNumber: true, shape: "dd"},
		{text: "3.14", isNumber: true, shape: "dxdd"},
		{text: "1,000", isNumber: true, shape: "dxddd"},
		{text: "A4", isWord: true, shape: "Xd"},
		{text: ",", isPunct: true, shape: "x"},
		{text: "...", isPunct: true, shape: "xxx"},
		{text: "+", isPunct: true, shape: "x"},
		{text: "", shape: ""},
	}
	for _, c := range cases {
		token := NewToken(0, c.text)
		require.Equal(t, c.isWord, token.IsWord, "IsWord(%q)", c.text)
		require.Equal(t, c.isNumber, token.IsNumber, "IsNumber(%q)", c.text)
		require.Equal(t, c.isPunct, token.IsPunct, "IsPunct(%q)", c.text)
		require.Equal(t, c.shape, token.Shape, "Shape(%q)", c.text)
	}
}
