// Package factory instantiates pluggable components, such as plan metrics
// sinks, from a {type, conf} pair found in configuration.
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//		var c struct{ URL string `json:"url"` }
//		if err := factory.Decode(conf, &c); err != nil {
//			return nil, err
//		}
//		return newInfluxSink(c.URL), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086"}})
package factory
