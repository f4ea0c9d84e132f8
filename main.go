package main

import (
	"time"

	"github.com/codetesla51/stashz/log"
	"github.com/codetesla51/stashz/store"
)

func main() {
	logger, err := log.NewLogger(true)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	s := store.NewFileStoreWithLogger(store.DefaultPath, logger)

	if err := s.Add("name", "John", 5*time.Minute); err != nil {
		println("Error adding key:", err.Error())
		return
	}
	value, err := s.Get("name")
	if err != nil {
		println("Error getting key:", err.Error())
	} else {
		println("name =", value.(string))
	}

	if err := s.Update("name", "Jane", 10*time.Minute); err != nil {
		println("Error updating key:", err.Error())
	}
	value, _ = s.Get("name")
	println("name after update =", value.(string))

	if err := s.Expire("name"); err != nil {
		println("Error expiring key:", err.Error())
	}
	expired, _ := s.ExpiredDetails()
	println("expired entries:", len(expired))

	if err := s.Remove("name"); err != nil {
		println("Error removing key:", err.Error())
	}
	if _, err := s.Get("name"); err != nil {
		println("name after remove:", err.Error())
	}
}
