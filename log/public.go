package log

// 以下为包级快捷方法, 都转发给 Plg

func Debug(v ...interface{}) {
	Plg.Debug(v...)
}

func Debugf(format string, v ...interface{}) {
	Plg.Debugf(format, v...)
}

func Info(v ...interface{}) {
	Plg.Info(v...)
}

func Infof(format string, v ...interface{}) {
	Plg.Infof(format, v...)
}

func Warning(v ...interface{}) {
	Plg.Warning(v...)
}

func Warningf(format string, v ...interface{}) {
	Plg.Warningf(format, v...)
}

func Error(v ...interface{}) {
	Plg.Error(v...)
}

func Errorf(format string, v ...interface{}) {
	Plg.Errorf(format, v...)
}
