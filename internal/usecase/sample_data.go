package usecase

type sampleCategory struct {
	Name  string
	Icon  string
	Color string
}

type sampleArticle struct {
	Category    string
	Title       string
	Description string
	Content     string
	ReadTime    int
}

var sampleCategories = []sampleCategory{
	{Name: "Artificial Intelligence", Icon: "🤖", Color: "icon-orange"},
	{Name: "Quantum Computing", Icon: "⚡", Color: "icon-teal"},
	{Name: "Climate Science", Icon: "🌍", Color: "icon-green"},
	{Name: "Space Technology", Icon: "🚀", Color: "icon-purple"},
	{Name: "Biotechnology", Icon: "🧬", Color: "icon-pink"},
	{Name: "Renewable Energy", Icon: "💡", Color: "icon-yellow"},
}

var sampleArticles = []sampleArticle{
	{
		Category: "Artificial Intelligence",
		Title:    "Understanding Large Language Models",
		Description: "Explore the architecture and capabilities of modern large language models like GPT, " +
			"their training processes, and real-world applications transforming industries.",
		Content: `Large Language Models (LLMs) represent a breakthrough in artificial intelligence. These models are trained on vast amounts of text data and can understand and generate human-like text.

Key Components:
- Transformer Architecture: The foundation of modern LLMs
- Attention Mechanisms: Allow the model to focus on relevant parts of the input
- Pre-training and Fine-tuning: Two-stage training process
- Tokenization: Converting text into numerical representations

Applications:
- Content generation and creative writing
- Code generation and debugging
- Translation and summarization
- Question answering and information retrieval
- Conversational AI and chatbots

The impact of LLMs extends across industries, from healthcare to education, finance to entertainment. As these models continue to evolve, they promise to revolutionize how we interact with technology and process information.`,
		ReadTime: 12,
	},
	{
		Category:    "Artificial Intelligence",
		Title:       "Neural Networks Deep Dive",
		Description: "A comprehensive guide to understanding neural networks, from basic perceptrons to deep learning architectures.",
		Content: `Neural networks are computational models inspired by the human brain. They consist of layers of interconnected nodes (neurons) that process information.

Basic Structure:
- Input Layer: Receives raw data
- Hidden Layers: Process and transform data
- Output Layer: Produces final results
- Weights and Biases: Learned parameters

Types of Neural Networks:
1. Feedforward Networks: Simple, unidirectional flow
2. Convolutional Neural Networks (CNNs): Image processing
3. Recurrent Neural Networks (RNNs): Sequential data
4. Transformers: State-of-the-art for NLP

Training Process:
- Forward propagation
- Loss calculation
- Backpropagation
- Gradient descent optimization

Modern applications include computer vision, natural language processing, autonomous vehicles, and medical diagnosis.`,
		ReadTime: 15,
	},
}
