package main

import (
	"github.com/example/sitebook/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// missing .env is fine, env vars alone work too
	_ = godotenv.Load()
	cmd.Execute()
}
