package visit

import (
	"github.com/mutazsaeed/fitzy/internal/visit/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("visit",
	fx.Provide(repository.New),
)
