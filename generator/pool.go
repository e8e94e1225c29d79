package generator

// DefaultPool is the built-in topic material. Headline and weekly templates
// take dates as fmt verbs; focus templates take a theme and an excerpt.
func DefaultPool() TopicPool {
	return TopicPool{
		HeadlineTemplates: []string{
			"Tech headlines for %s\n\nAI models keep getting more efficient while quantum research marks new milestones.\nInnovation never sleeps. #TechNews #AI",
			"Tech headlines for %s\n\nGreen computing moves from buzzword to budget line as edge and cloud workloads converge.\nThe way we build software is changing. #TechNews #GreenTech",
			"Tech headlines for %s\n\nNew network architectures and hardened security stacks are reshaping the industry.\nSmarter and safer, one release at a time. #TechNews #Security",
		},
		ThreadTopics: []ThreadTopic{
			{
				Theme: "Green computing",
				Posts: []string{
					"Sustainable AI has become a defining issue for the industry. As models grow, so does their appetite for power.",
					"Training a single large model can consume as much electricity as hundreds of homes use in a year. We need leaner algorithms.",
					"Pruning and knowledge distillation are cutting parameter counts dramatically while keeping accuracy nearly intact.",
					"Studies show optimized models can improve energy efficiency by 70% at a cost of roughly 2% accuracy. That trade is worth making.",
					"The future of AI is smarter, not bigger. Let's push green computing forward together. #SustainableAI #GreenComputing",
				},
			},
			{
				Theme: "Edge AI",
				Posts: []string{
					"Edge AI is redefining sustainable computing. Pushing intelligence onto devices reduces cloud dependence.",
					"Running models on phones and IoT hardware cuts data transfer, lowers latency, and saves serious datacenter capacity.",
					"Quantization and purpose-built chips now let complex models run on devices drawing only a few watts.",
					"By 2026 an estimated 70% of inference will happen at the edge, trimming cloud energy use by 40%.",
					"Distributed intelligence is here. Every device becomes a small engine in a more sustainable ecosystem. #EdgeAI #IoT",
				},
			},
			{
				Theme: "Responsible AI",
				Posts: []string{
					"Sustainable AI is about more than energy. Responsible development means balancing innovation with accountability.",
					"Bias, privacy, and transparency are dimensions of sustainability just as much as carbon footprints are.",
					"Federated learning and differential privacy let us train capable models without hoarding raw personal data.",
					"Responsible AI frameworks are becoming industry standard; most large tech firms now run ethics review boards.",
					"Technology should serve everyone. The end goal of sustainable AI is a fairer, better world. #ResponsibleAI",
				},
			},
		},
		FocusTemplates: []string{
			"Daily focus\n\nTopic: %s\n\n%s\n\nSmall improvements compound into industry-wide change.",
			"A closer look\n\nToday's theme: %s\n\n%s\n\nWorth watching as this space matures.",
			"Deep dive\n\nOn the subject of %s:\n\n%s\n\nThe next few years will be decisive here.",
		},
		WeeklyTemplates: []string{
			"Weekly tech recap (%s - %s)\n\n1. Model efficiency keeps improving\n2. Green computing gains mindshare\n3. Edge AI applications expand\n4. Open source ecosystems thrive\n\nSee you next week! #WeeklyRecap #TechTrends",
			"Weekly tech recap (%s - %s)\n\nAI tooling matured, infrastructure costs dropped, and the open ecosystem kept shipping.\nProgress never pauses. #WeeklyRecap #Innovation",
		},
		QuoteComments: []string{
			"Thought-provoking take. AI progress really does demand perspective from more than one angle.",
			"Well said. Innovation and responsible development are not at odds; the trick is finding the balance.",
			"Valuable work. Results like these matter for the whole field, not just one lab.",
			"Agreed. Frontier technology is always equal parts challenge and opportunity.",
			"Great insight. Every step of technical progress deserves this kind of careful discussion.",
		},
		SearchQueries: []string{
			"artificial intelligence research breakthrough",
			"sustainable AI green computing innovation",
			"quantum computing progress latest",
			"machine learning paper findings",
			"edge computing efficiency gains",
		},
	}
}
