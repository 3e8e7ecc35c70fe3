package config

import "strings"

//envReplacer maps nested keys to environment variable names: logging.level
//is read from TRJSTAT_LOGGING_LEVEL.
var envReplacer = strings.NewReplacer(".", "_")
