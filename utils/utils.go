package utils

import (
	"bufio"
	"github.com/twmb/murmur3"
	"os"
	"strings"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

func ReadMap(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	result := make(map[string]string)
	for scanner.Scan() {
		p := strings.Split(scanner.Text(), "|")
		if len(p) < 2 {
			continue
		}
		result[p[0]] = p[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

