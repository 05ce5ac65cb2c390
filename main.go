// main is the entry point of the pnps CLI.
package main

import (
	"github.com/huangsam/pnps/cmd"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env may hold PNPS_* settings such as database connection strings
	_ = godotenv.Load()

	cmd.SetStoreManager(store.Manager)
	err := cmd.Execute()
	cmd.SyncReporter()
	store.CloseStores()
	if err != nil {
		contract.LogFatal("pnps", err)
	}
}
