package main

import (
	"github.com/urfave/cli/v2"

	"github.com/familyquest/backend/internal/entity"
)

func (s *srv) migrate(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
