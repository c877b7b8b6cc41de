package main

import (
	"github.com/chatterly/chat_service/config"
	"github.com/chatterly/chat_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
