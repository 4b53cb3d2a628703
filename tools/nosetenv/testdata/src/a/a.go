package a

import "os"

func Configure() error {
	return os.Setenv("DB_TYPE", "mongodb")
}
